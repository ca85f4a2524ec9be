// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package tunnel implements the CloudflaredTunnel reconciler: the six-phase
// state machine that drives a tunnel from spec to a converged Cloudflare
// tunnel, credentials Secret, configuration Secret, and agent Deployment.
package tunnel

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlcontroller "sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/controller"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/controller/common"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/controller/ingress"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/ingressclass"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/secretapply"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/tunnelconfig"
)

// FinalizerName is added to every CloudflaredTunnel on first reconcile and
// removed only after the remote tunnel has been deleted.
const FinalizerName = "chalharu.top/cloudflared-tunnel"

const (
	eventReasonTunnelProvisioned  = "TunnelProvisioned"
	eventReasonTunnelReprovision  = "TunnelReprovisioned"
	eventReasonCredentialsReady   = "CredentialsSecretReady"
	eventReasonConfigUpdated      = "ConfigurationUpdated"
	eventReasonDeploymentUpdated  = "DeploymentUpdated"
	eventReasonTunnelDeleted      = "TunnelDeleted"
	eventReasonIngressRuleSkipped = "IngressRuleSkipped"
)

// Reconciler drives CloudflaredTunnel objects to convergence.
//
// +kubebuilder:rbac:groups=chalharu.top,resources=cloudflaredtunnels,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=chalharu.top,resources=cloudflaredtunnels/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=chalharu.top,resources=cloudflaredtunnels/finalizers,verbs=update
// +kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingressclasses,verbs=get;list;watch
type Reconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Resolver *ingressclass.Resolver

	// DefaultAgentImage is used for spec.image when a CloudflaredTunnel
	// leaves it unset. Falls back to the package default when empty.
	DefaultAgentImage string

	// MaxConcurrentReconciles bounds the number of CloudflaredTunnel keys
	// processed in parallel by this controller. Zero uses the
	// controller-runtime default of 1.
	MaxConcurrentReconciles int

	// NewCloudflareClient builds the Cloudflare API client from an API
	// token; defaults to cf.NewClient. Tests inject a mock here.
	NewCloudflareClient controller.NewCloudflareClientFunc
}

// Reconcile implements the six-phase state machine from the tunnel
// controller's component design.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	tunnel := &v1alpha1.CloudflaredTunnel{}
	if err := r.Get(ctx, req.NamespacedName, tunnel); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	if !tunnel.DeletionTimestamp.IsZero() {
		return r.reconcileDelete(ctx, logger, tunnel)
	}

	if added, err := controller.EnsureFinalizer(ctx, r.Client, tunnel, FinalizerName); err != nil {
		return ctrl.Result{}, err
	} else if added {
		logger.V(1).Info("added finalizer")
	}

	cfClient, accountID, err := controller.ResolveClient(ctx, r.Client, logger, tunnel.Namespace, secretRefName(tunnel), r.NewCloudflareClient)
	if err != nil {
		return r.fail(ctx, tunnel, "CredentialError", err)
	}

	provisioner := cf.NewProvisioner(cfClient, accountID, logger)
	namePrefix := fmt.Sprintf("%s-%s", tunnel.Namespace, tunnel.Name)

	existingTunnelID := tunnel.Status.TunnelID
	if existingTunnelID == "" {
		recovered, found, err := provisioner.Recover(ctx, namePrefix)
		if err != nil {
			return r.fail(ctx, tunnel, "TunnelProvisionFailed", err)
		} else if found {
			logger.Info("recovered orphaned tunnel from a prior reconcile", "tunnelId", recovered.TunnelID)
			existingTunnelID = recovered.TunnelID
		}
	}

	provisionResult, err := provisioner.Ensure(ctx, namePrefix, existingTunnelID)
	if err != nil {
		return r.fail(ctx, tunnel, "TunnelProvisionFailed", err)
	}

	if provisionResult.TunnelID != tunnel.Status.TunnelID {
		reason := eventReasonTunnelProvisioned
		if tunnel.Status.TunnelID != "" {
			reason = eventReasonTunnelReprovision
		}
		controller.RecordSuccess(r.Recorder, tunnel, reason, fmt.Sprintf("tunnel %s ready", provisionResult.TunnelID))
	}

	if provisionResult.CredentialsRaw != "" {
		if err := r.ensureCredentialsSecret(ctx, tunnel, provisionResult.CredentialsRaw); err != nil {
			return r.fail(ctx, tunnel, "CredentialsSecretFailed", err)
		}
		controller.RecordSuccess(r.Recorder, tunnel, eventReasonCredentialsReady, "credentials secret created")
	}

	ingresses, err := r.Resolver.IngressesFor(ctx, ingressclass.Target{Name: tunnel.Name, Namespace: tunnel.Namespace})
	if err != nil {
		return ctrl.Result{}, err
	}

	configResult, configHash, err := r.applyConfigSecret(ctx, tunnel, provisionResult.TunnelID, ingresses)
	if err != nil {
		return r.fail(ctx, tunnel, "ConfigurationFailed", err)
	}
	if configResult.Created || configResult.Updated {
		controller.RecordSuccess(r.Recorder, tunnel, eventReasonConfigUpdated, "configuration secret applied")
	}

	deployResult, err := r.applyDeployment(ctx, tunnel, configHash)
	if err != nil {
		return r.fail(ctx, tunnel, "DeploymentFailed", err)
	}
	if deployResult.Created || deployResult.Updated {
		controller.RecordSuccess(r.Recorder, tunnel, eventReasonDeploymentUpdated, "deployment applied")
	}

	if err := r.writeStatus(ctx, tunnel, provisionResult.TunnelID, tunnel.Status.TunnelSecretRef, tunnel.Status.ConfigSecretRef); err != nil {
		return ctrl.Result{}, err
	}

	return ctrl.Result{}, nil
}

func (r *Reconciler) reconcileDelete(ctx context.Context, logger logr.Logger, tunnel *v1alpha1.CloudflaredTunnel) (ctrl.Result, error) {
	if !controllerutil.ContainsFinalizer(tunnel, FinalizerName) {
		return ctrl.Result{}, nil
	}

	if tunnel.Status.TunnelID != "" {
		cfClient, accountID, err := controller.ResolveClient(ctx, r.Client, logger, tunnel.Namespace, secretRefName(tunnel), r.NewCloudflareClient)
		if err != nil {
			// Credentials gone: block deletion rather than leaking the tunnel
			// silently, per the operator's RemoteAuth-on-delete contract.
			return r.fail(ctx, tunnel, "CredentialError", err)
		}
		provisioner := cf.NewProvisioner(cfClient, accountID, logger)
		if err := provisioner.Delete(ctx, tunnel.Status.TunnelID); err != nil {
			if errors.Is(err, cf.ErrRemoteAuth) {
				return r.fail(ctx, tunnel, "TunnelDeleteFailed", err)
			}
			return r.retry(ctx, tunnel, "TunnelDeleteFailed", err)
		}
		controller.RecordSuccess(r.Recorder, tunnel, eventReasonTunnelDeleted, fmt.Sprintf("tunnel %s deleted", tunnel.Status.TunnelID))
	}

	if _, err := controller.RemoveFinalizerSafely(ctx, r.Client, tunnel, FinalizerName); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{}, nil
}

func (r *Reconciler) ensureCredentialsSecret(ctx context.Context, tunnel *v1alpha1.CloudflaredTunnel, credentialsJSON string) error {
	desired := desiredCredentialsSecret(tunnel, credentialsJSON)
	if _, err := secretapply.ApplySecret(ctx, r.Client, r.Scheme, tunnel, desired); err != nil {
		return err
	}
	tunnel.Status.TunnelSecretRef = desired.Name
	return nil
}

func (r *Reconciler) applyConfigSecret(ctx context.Context, tunnel *v1alpha1.CloudflaredTunnel, tunnelID string, ingresses []*networkingv1.Ingress) (secretapply.Result, string, error) {
	configYAML, skipped, err := tunnelconfig.Build(tunnelID, tunnel.Spec, ingresses)
	if err != nil {
		return secretapply.Result{}, "", fmt.Errorf("%w: render configuration: %v", cf.ErrConfigError, err)
	}
	for _, s := range skipped {
		controller.RecordError(r.Recorder, tunnel, eventReasonIngressRuleSkipped,
			fmt.Errorf("ingress %s/%s host %q path %q: %s", s.Namespace, s.Name, s.Host, s.Path, s.Reason))
	}

	desired := desiredConfigSecret(tunnel, configYAML)
	result, err := secretapply.ApplySecret(ctx, r.Client, r.Scheme, tunnel, desired)
	if err != nil {
		return secretapply.Result{}, "", err
	}

	hash := configHashOf(configYAML)
	tunnel.Status.ConfigSecretRef = desired.Name
	return result, hash, nil
}

func (r *Reconciler) applyDeployment(ctx context.Context, tunnel *v1alpha1.CloudflaredTunnel, configHash string) (secretapply.Result, error) {
	desired := desiredDeployment(tunnel, credentialsSecretName(tunnel.Name), configSecretName(tunnel.Name), configHash, r.DefaultAgentImage)
	return secretapply.ApplyDeployment(ctx, r.Client, r.Scheme, tunnel, desired)
}

func (r *Reconciler) writeStatus(ctx context.Context, tunnel *v1alpha1.CloudflaredTunnel, tunnelID, tunnelSecretRef, configSecretRef string) error {
	return controller.UpdateStatusWithConflictRetry(ctx, r.Client, tunnel, func() {
		tunnel.Status.TunnelID = tunnelID
		tunnel.Status.TunnelSecretRef = tunnelSecretRef
		tunnel.Status.ConfigSecretRef = configSecretRef
		tunnel.Status.ObservedGeneration = tunnel.Generation
		controller.SetSuccessCondition(&tunnel.Status.Conditions, "tunnel converged")
	})
}

// fail records a terminal or backoff-eligible error in status and returns the
// requeue result appropriate for its classification.
func (r *Reconciler) fail(ctx context.Context, tunnel *v1alpha1.CloudflaredTunnel, reason string, err error) (ctrl.Result, error) {
	controller.RecordErrorEventAndCondition(r.Recorder, tunnel, &tunnel.Status.Conditions, reason, err)
	if statusErr := controller.UpdateStatusWithConflictRetry(ctx, r.Client, tunnel, func() {
		tunnel.Status.ObservedGeneration = tunnel.Generation
	}); statusErr != nil {
		return ctrl.Result{}, statusErr
	}
	return common.RequeueForError(err, 0), nil
}

// retry is fail under another name: like fail, it never surfaces the error to
// the caller of Reconcile and relies solely on RequeueAfter. Used on the
// delete path where a
// transient DeleteTunnel failure must not block finalizer removal forever but
// also must not be treated as a one-shot terminal condition.
func (r *Reconciler) retry(ctx context.Context, tunnel *v1alpha1.CloudflaredTunnel, reason string, err error) (ctrl.Result, error) {
	return r.fail(ctx, tunnel, reason, err)
}

func secretRefName(tunnel *v1alpha1.CloudflaredTunnel) string {
	if tunnel.Spec.SecretRef == nil {
		return ""
	}
	return tunnel.Spec.SecretRef.Name
}

func configHashOf(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SetupWithManager wires the reconciler's watches: CloudflaredTunnel
// directly, plus Ingress and IngressClass changes mapped back to the
// CloudflaredTunnel(s) they resolve to via an ingress.Mapper. This is the
// entire "Ingress controller" component: it has no separate work queue of
// its own, since controller-runtime already serializes and dedupes a
// single controller's queue across every watch source feeding it.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	r.Resolver = ingressclass.NewResolver(mgr.GetClient())
	mapper := ingress.NewMapper(r.Resolver)

	return ctrl.NewControllerManagedBy(mgr).
		For(&v1alpha1.CloudflaredTunnel{}).
		Owns(&corev1.Secret{}).
		Owns(&appsv1.Deployment{}).
		Watches(&networkingv1.Ingress{}, handler.EnqueueRequestsFromMapFunc(mapper.MapIngress)).
		Watches(&networkingv1.IngressClass{}, handler.EnqueueRequestsFromMapFunc(mapper.MapIngressClass)).
		WithOptions(ctrlcontroller.Options{MaxConcurrentReconciles: r.MaxConcurrentReconciles}).
		Complete(r)
}
