// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf/mock"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/controller/tunnel"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/ingressclass"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/testutil"
)

func newTunnelScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, appsv1.AddToScheme(scheme))
	require.NoError(t, networkingv1.AddToScheme(scheme))
	require.NoError(t, v1alpha1.AddToScheme(scheme))
	return scheme
}

func newReconciler(t *testing.T, cfClient cf.CloudflareClient, objs ...client.Object) (*tunnel.Reconciler, client.Client) {
	t.Helper()
	scheme := newTunnelScheme(t)
	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(objs...).WithStatusSubresource(&v1alpha1.CloudflaredTunnel{}).Build()

	r := &tunnel.Reconciler{
		Client:   c,
		Scheme:   scheme,
		Recorder: record.NewFakeRecorder(32),
		Resolver: ingressclass.NewResolver(c),
		NewCloudflareClient: func(string) (cf.CloudflareClient, error) {
			return cfClient, nil
		},
	}
	return r, c
}

func credentialsSecretForLoader(t *testing.T, namespace string) *corev1.Secret {
	t.Helper()
	return testutil.NewSecretBuilder(testutil.CredentialsSecretName, namespace).
		WithStringData("api_token", testutil.DefaultAPIToken).
		WithStringData("account_id", "acct").
		Build()
}

func baseTunnel(namespace, name string) *v1alpha1.CloudflaredTunnel {
	tn := testutil.NewCloudflaredTunnelBuilder(name, namespace).
		WithSecretRef(testutil.CredentialsSecretName).
		Build()
	tn.Generation = 1
	tn.Spec.DefaultIngressService = "http_status:404"
	return tn
}

func TestReconcileProvisionsFreshTunnel(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().ListTunnels(gomock.Any(), "acct", "").Return(nil, nil)
	cfClient.EXPECT().CreateTunnel(gomock.Any(), "acct", gomock.Any(), gomock.Any()).
		Return(cf.Tunnel{ID: "tunnel-1", Name: "tn"}, nil)

	tn := baseTunnel("apps", "web")
	creds := credentialsSecretForLoader(t, "apps")
	r, c := newReconciler(t, cfClient, tn, creds)

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	got := &v1alpha1.CloudflaredTunnel{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web"}, got))
	assert.Equal(t, "tunnel-1", got.Status.TunnelID)
	assert.NotEmpty(t, got.Status.TunnelSecretRef)
	assert.NotEmpty(t, got.Status.ConfigSecretRef)
	assert.Equal(t, int64(1), got.Status.ObservedGeneration)

	credSecret := &corev1.Secret{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: got.Status.TunnelSecretRef}, credSecret))
	assert.Contains(t, string(credSecret.Data["credentials.json"]), "tunnel-1")

	configSecret := &corev1.Secret{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: got.Status.ConfigSecretRef}, configSecret))
	assert.Contains(t, string(configSecret.Data["config.yaml"]), "http_status:404")

	deploy := &appsv1.Deployment{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web-cloudflared"}, deploy))
	assert.NotEmpty(t, deploy.Spec.Template.Annotations[tunnel.ConfigHashAnnotation])
}

func TestReconcileReusesExistingTunnelWithoutMintingCredentials(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().GetTunnel(gomock.Any(), "acct", "tunnel-1").
		Return(cf.Tunnel{ID: "tunnel-1", Name: "tn"}, nil)

	tn := baseTunnel("apps", "web")
	tn.UID = "owner-uid"
	tn.Status.TunnelID = "tunnel-1"
	tn.Status.TunnelSecretRef = "web-cloudflared-credentials"
	creds := credentialsSecretForLoader(t, "apps")
	isController := true
	existingCreds := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name: "web-cloudflared-credentials", Namespace: "apps",
			OwnerReferences: []metav1.OwnerReference{{
				APIVersion: "chalharu.top/v1alpha1",
				Kind:       "CloudflaredTunnel",
				Name:       tn.Name,
				UID:        tn.UID,
				Controller: &isController,
			}},
		},
		Data: map[string][]byte{"credentials.json": []byte(`{"TunnelID":"tunnel-1"}`)},
	}
	r, c := newReconciler(t, cfClient, tn, creds, existingCreds)

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	got := &corev1.Secret{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web-cloudflared-credentials"}, got))
	assert.Equal(t, `{"TunnelID":"tunnel-1"}`, string(got.Data["credentials.json"]), "existing credentials must never be rewritten")
}

func TestReconcileRecoversOrphanedTunnelInsteadOfCreatingDuplicate(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().ListTunnels(gomock.Any(), "acct", "").
		Return([]cf.Tunnel{{ID: "tunnel-orphan", Name: "apps-web-abcd"}}, nil)
	cfClient.EXPECT().GetTunnel(gomock.Any(), "acct", "tunnel-orphan").
		Return(cf.Tunnel{ID: "tunnel-orphan", Name: "apps-web-abcd"}, nil)

	tn := baseTunnel("apps", "web")
	creds := credentialsSecretForLoader(t, "apps")
	r, c := newReconciler(t, cfClient, tn, creds)

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	got := &v1alpha1.CloudflaredTunnel{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web"}, got))
	assert.Equal(t, "tunnel-orphan", got.Status.TunnelID, "a tunnel matching the naming convention must be recovered instead of creating a duplicate")
}

func TestReconcileDeleteRemovesFinalizerAfterTunnelDeleted(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().DeleteTunnel(gomock.Any(), "acct", "tunnel-1").Return(nil)

	tn := baseTunnel("apps", "web")
	tn.Status.TunnelID = "tunnel-1"
	now := metav1.Now()
	tn.DeletionTimestamp = &now
	tn.Finalizers = []string{tunnel.FinalizerName}
	creds := credentialsSecretForLoader(t, "apps")
	r, c := newReconciler(t, cfClient, tn, creds)

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	got := &v1alpha1.CloudflaredTunnel{}
	err = c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web"}, got)
	if err == nil {
		testutil.AssertNoFinalizer(t, got.Finalizers, tunnel.FinalizerName)
	}
}

func TestReconcileReprovisionsWhenRemoteTunnelVanished(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().GetTunnel(gomock.Any(), "acct", "tunnel-1").Return(cf.Tunnel{}, cf.ErrRemoteNotFound)
	cfClient.EXPECT().CreateTunnel(gomock.Any(), "acct", gomock.Any(), gomock.Any()).
		Return(cf.Tunnel{ID: "tunnel-2", Name: "tn-2"}, nil)

	tn := baseTunnel("apps", "web")
	tn.Status.TunnelID = "tunnel-1"
	tn.Status.TunnelSecretRef = "web-cloudflared-credentials"
	creds := credentialsSecretForLoader(t, "apps")
	r, c := newReconciler(t, cfClient, tn, creds)

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	got := &v1alpha1.CloudflaredTunnel{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web"}, got))
	assert.Equal(t, "tunnel-2", got.Status.TunnelID, "a vanished remote tunnel must trigger re-provisioning under a fresh ID")

	credSecret := &corev1.Secret{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web-cloudflared-credentials"}, credSecret))
	assert.Contains(t, string(credSecret.Data["credentials.json"]), "tunnel-2", "re-provisioning must mint fresh credentials for the new tunnel")
}

func TestReconcileDeleteRetriesOnTransientFailureInsteadOfBlockingFinalizerForever(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().DeleteTunnel(gomock.Any(), "acct", "tunnel-1").
		Return(fmt.Errorf("wrapped: %w", cf.ErrRemoteTransient))

	tn := baseTunnel("apps", "web")
	tn.Status.TunnelID = "tunnel-1"
	now := metav1.Now()
	tn.DeletionTimestamp = &now
	tn.Finalizers = []string{tunnel.FinalizerName}
	creds := credentialsSecretForLoader(t, "apps")
	r, c := newReconciler(t, cfClient, tn, creds)

	res, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err, "a transient delete failure must not be surfaced as a terminal reconcile error")
	assert.Greater(t, res.RequeueAfter.Nanoseconds(), int64(0), "a transient delete failure must schedule a requeue")

	got := &v1alpha1.CloudflaredTunnel{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web"}, got))
	assert.Contains(t, got.Finalizers, tunnel.FinalizerName, "the finalizer must survive a transient delete failure so deletion is retried")
}

func TestReconcileRecordsEventForIngressRuleWithoutServiceBackend(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().ListTunnels(gomock.Any(), "acct", "").Return(nil, nil)
	cfClient.EXPECT().CreateTunnel(gomock.Any(), "acct", gomock.Any(), gomock.Any()).
		Return(cf.Tunnel{ID: "tunnel-1", Name: "tn"}, nil)

	tn := baseTunnel("apps", "web")
	creds := credentialsSecretForLoader(t, "apps")
	class := testutil.NewIngressClassBuilder("cf", ingressclass.ControllerName).
		WithParameters(ingressclass.ParametersAPIGroup, ingressclass.ParametersKind, "web", "apps").
		Build()
	className := "cf"
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Name: "broken", Namespace: "apps"},
		Spec: networkingv1.IngressSpec{
			IngressClassName: &className,
			Rules: []networkingv1.IngressRule{{
				Host: "broken.example.com",
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{Path: "/"}},
					},
				},
			}},
		},
	}

	scheme := newTunnelScheme(t)
	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(tn, creds, class, ing).WithStatusSubresource(&v1alpha1.CloudflaredTunnel{}).Build()
	recorder := record.NewFakeRecorder(32)
	r := &tunnel.Reconciler{
		Client:   c,
		Scheme:   scheme,
		Recorder: recorder,
		Resolver: ingressclass.NewResolver(c),
		NewCloudflareClient: func(string) (cf.CloudflareClient, error) {
			return cfClient, nil
		},
	}

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	found := false
	close(recorder.Events)
	for event := range recorder.Events {
		if strings.Contains(event, "IngressRuleSkipped") {
			found = true
			assert.Contains(t, event, "broken.example.com")
		}
	}
	assert.True(t, found, "expected an IngressRuleSkipped event to be recorded")
}

func TestReconcilePropagatesIngressRulesIntoConfigurationSecret(t *testing.T) {
	ctrl2 := gomock.NewController(t)
	cfClient := mock.NewMockCloudflareClient(ctrl2)
	cfClient.EXPECT().ListTunnels(gomock.Any(), "acct", "").Return(nil, nil)
	cfClient.EXPECT().CreateTunnel(gomock.Any(), "acct", gomock.Any(), gomock.Any()).
		Return(cf.Tunnel{ID: "tunnel-1", Name: "tn"}, nil)

	tn := baseTunnel("apps", "web")
	creds := credentialsSecretForLoader(t, "apps")
	class := testutil.NewIngressClassBuilder("cf", ingressclass.ControllerName).
		WithParameters(ingressclass.ParametersAPIGroup, ingressclass.ParametersKind, "web", "apps").
		Build()
	pathType := networkingv1.PathTypePrefix
	className := "cf"
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Name: "site", Namespace: "apps"},
		Spec: networkingv1.IngressSpec{
			IngressClassName: &className,
			Rules: []networkingv1.IngressRule{{
				Host: "app.example.com",
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Path:     "/",
							PathType: &pathType,
							Backend: networkingv1.IngressBackend{
								Service: &networkingv1.IngressServiceBackend{
									Name: "app-svc",
									Port: networkingv1.ServiceBackendPort{Number: 80},
								},
							},
						}},
					},
				},
			}},
		},
	}
	r, c := newReconciler(t, cfClient, tn, creds, class, ing)

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "apps", Name: "web"}})
	require.NoError(t, err)

	got := &v1alpha1.CloudflaredTunnel{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: "web"}, got))

	configSecret := &corev1.Secret{}
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "apps", Name: got.Status.ConfigSecretRef}, configSecret))
	rendered := string(configSecret.Data["config.yaml"])
	assert.Contains(t, rendered, "app.example.com")
	assert.Contains(t, rendered, "app-svc")
}
