// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package testutil

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
)

const (
	// TestNamespace is the default namespace used by fixtures.
	TestNamespace = "test-namespace"

	// DefaultAccountID is a placeholder Cloudflare account identifier.
	DefaultAccountID = "test-account-id"

	// DefaultAPIToken is a placeholder Cloudflare API token.
	DefaultAPIToken = "test-api-token"

	// CredentialsSecretName is the conventional name for the credentials Secret fixture.
	CredentialsSecretName = "cloudflare-credentials"
)

// Fixtures produces ready-to-use test objects scoped to a namespace.
type Fixtures struct {
	Namespace string
}

// NewFixtures returns Fixtures scoped to TestNamespace.
func NewFixtures() *Fixtures {
	return &Fixtures{Namespace: TestNamespace}
}

// WithNamespace returns a copy of Fixtures scoped to namespace.
func (f *Fixtures) WithNamespace(namespace string) *Fixtures {
	return &Fixtures{Namespace: namespace}
}

// NamespaceObj returns a Namespace object for f.Namespace.
func (f *Fixtures) NamespaceObj() *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: f.Namespace}}
}

// CredentialsSecret returns a Secret carrying api_token/account_id keys.
func (f *Fixtures) CredentialsSecret() *corev1.Secret {
	return NewSecretBuilder(CredentialsSecretName, f.Namespace).
		WithStringData("api_token", DefaultAPIToken).
		WithStringData("account_id", DefaultAccountID).
		Build()
}

// SimpleCloudflaredTunnel returns a minimal, valid CloudflaredTunnel.
func (f *Fixtures) SimpleCloudflaredTunnel(name string) *v1alpha1.CloudflaredTunnel {
	return NewCloudflaredTunnelBuilder(name, f.Namespace).
		WithSecretRef(CredentialsSecretName).
		WithIngressRule("app.example.com", "http://app.default.svc:80", "").
		Build()
}

// Service returns a plain Service fixture selecting pods labelled app=name.
func Service(name, namespace string, port int32) *corev1.Service {
	return ServiceWithSelector(name, namespace, port, map[string]string{"app": name})
}

// ServiceWithSelector returns a Service fixture with an explicit pod selector.
func ServiceWithSelector(name, namespace string, port int32, selector map[string]string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Spec: corev1.ServiceSpec{
			Selector: selector,
			Ports: []corev1.ServicePort{
				{Port: port, TargetPort: intstr.FromInt32(port)},
			},
		},
	}
}
