// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package testutil

import (
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
)

// CloudflaredTunnelBuilder builds CloudflaredTunnel resources for testing.
type CloudflaredTunnelBuilder struct {
	tunnel *v1alpha1.CloudflaredTunnel
}

// NewCloudflaredTunnelBuilder creates a new CloudflaredTunnelBuilder.
func NewCloudflaredTunnelBuilder(name, namespace string) *CloudflaredTunnelBuilder {
	return &CloudflaredTunnelBuilder{
		tunnel: &v1alpha1.CloudflaredTunnel{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "chalharu.top/v1alpha1",
				Kind:       "CloudflaredTunnel",
			},
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: namespace,
				UID:       types.UID(fmt.Sprintf("cfdt-%s-%d", name, time.Now().UnixNano())),
			},
		},
	}
}

// WithSecretRef sets the credentials Secret reference.
func (b *CloudflaredTunnelBuilder) WithSecretRef(name string) *CloudflaredTunnelBuilder {
	b.tunnel.Spec.SecretRef = &v1alpha1.SecretKeySelector{Name: name}
	return b
}

// WithIngressRule appends an ingress rule.
func (b *CloudflaredTunnelBuilder) WithIngressRule(hostname, service, path string) *CloudflaredTunnelBuilder {
	b.tunnel.Spec.Ingress = append(b.tunnel.Spec.Ingress, v1alpha1.IngressRule{
		Hostname: hostname,
		Service:  service,
		Path:     path,
	})
	return b
}

// WithTunnelID sets status.tunnelID.
func (b *CloudflaredTunnelBuilder) WithTunnelID(id string) *CloudflaredTunnelBuilder {
	b.tunnel.Status.TunnelID = id
	return b
}

// WithFinalizer adds a finalizer.
func (b *CloudflaredTunnelBuilder) WithFinalizer(name string) *CloudflaredTunnelBuilder {
	b.tunnel.Finalizers = append(b.tunnel.Finalizers, name)
	return b
}

// WithDeletionTimestamp marks the resource for deletion.
func (b *CloudflaredTunnelBuilder) WithDeletionTimestamp() *CloudflaredTunnelBuilder {
	now := metav1.Now()
	b.tunnel.DeletionTimestamp = &now
	return b
}

// Build returns the constructed CloudflaredTunnel.
func (b *CloudflaredTunnelBuilder) Build() *v1alpha1.CloudflaredTunnel {
	return b.tunnel.DeepCopy()
}

// SecretBuilder builds Secret resources for testing.
type SecretBuilder struct {
	secret *corev1.Secret
}

// NewSecretBuilder creates a new SecretBuilder.
func NewSecretBuilder(name, namespace string) *SecretBuilder {
	return &SecretBuilder{
		secret: &corev1.Secret{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "v1",
				Kind:       "Secret",
			},
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: namespace,
			},
			Data: make(map[string][]byte),
		},
	}
}

// WithStringData adds string data to the secret.
func (b *SecretBuilder) WithStringData(key, value string) *SecretBuilder {
	b.secret.Data[key] = []byte(value)
	return b
}

// Build returns the constructed Secret.
func (b *SecretBuilder) Build() *corev1.Secret {
	return b.secret.DeepCopy()
}

// IngressClassBuilder builds IngressClass resources pointed at a CloudflaredTunnel.
type IngressClassBuilder struct {
	class *networkingv1.IngressClass
}

// NewIngressClassBuilder creates a new IngressClassBuilder for the given
// controller string.
func NewIngressClassBuilder(name, controller string) *IngressClassBuilder {
	return &IngressClassBuilder{
		class: &networkingv1.IngressClass{
			ObjectMeta: metav1.ObjectMeta{Name: name},
			Spec:       networkingv1.IngressClassSpec{Controller: controller},
		},
	}
}

// WithParameters points the class at a CloudflaredTunnel.
func (b *IngressClassBuilder) WithParameters(apiGroup, kind, name, namespace string) *IngressClassBuilder {
	ns := namespace
	b.class.Spec.Parameters = &networkingv1.IngressClassParametersReference{
		APIGroup:  &apiGroup,
		Kind:      kind,
		Name:      name,
		Namespace: &ns,
	}
	return b
}

// Build returns the constructed IngressClass.
func (b *IngressClassBuilder) Build() *networkingv1.IngressClass {
	return b.class.DeepCopy()
}
