// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package secretapply implements fetch-or-create-with-owner-ref,
// content-hash-compare, patch-only-if-different semantics for the Secret
// and Deployment objects a CloudflaredTunnel owns.
package secretapply

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	apitypes "k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/yaml"

	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/controller"
)

// Result reports what Apply did.
type Result struct {
	// Created is true when the object did not exist and was created.
	Created bool
	// Updated is true when the object existed, was owned by us, and its
	// content hash differed from the desired state.
	Updated bool
}

// ApplySecret fetches the Secret named desired.Name in desired.Namespace. If
// absent, it creates desired with an owner-reference to owner. If present and
// owned by owner, it patches Data only when its content hash differs from
// desired's. If present but not owned by owner, it returns cf.ErrOwnershipConflict.
func ApplySecret(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, desired *corev1.Secret) (Result, error) {
	current := &corev1.Secret{}
	err := c.Get(ctx, apitypes.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, current)
	switch {
	case apierrors.IsNotFound(err):
		if err := controllerutil.SetControllerReference(owner, desired, scheme); err != nil {
			return Result{}, fmt.Errorf("set owner reference on secret %s: %w", desired.Name, err)
		}
		if err := c.Create(ctx, desired); err != nil {
			return Result{}, fmt.Errorf("create secret %s: %w", desired.Name, err)
		}
		return Result{Created: true}, nil
	case err != nil:
		return Result{}, fmt.Errorf("get secret %s: %w", desired.Name, err)
	}

	if !isControlledBy(current, owner) {
		return Result{}, fmt.Errorf("%w: secret %s/%s exists without an owner reference to this tunnel", cf.ErrOwnershipConflict, desired.Namespace, desired.Name)
	}

	if hashSecretData(current.Data) == hashSecretData(desired.Data) {
		return Result{}, nil
	}

	if err := controller.UpdateWithConflictRetry(ctx, c, current, func() {
		current.Data = desired.Data
	}); err != nil {
		return Result{}, fmt.Errorf("patch secret %s: %w", desired.Name, err)
	}
	return Result{Updated: true}, nil
}

// ApplyDeployment fetches the Deployment named desired.Name in
// desired.Namespace. If absent, it creates desired with an owner-reference to
// owner. If present and owned by owner, it patches the Pod template only when
// its content hash differs from desired's. If present but not owned by owner,
// it returns cf.ErrOwnershipConflict.
func ApplyDeployment(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, desired *appsv1.Deployment) (Result, error) {
	current := &appsv1.Deployment{}
	err := c.Get(ctx, apitypes.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, current)
	switch {
	case apierrors.IsNotFound(err):
		if err := controllerutil.SetControllerReference(owner, desired, scheme); err != nil {
			return Result{}, fmt.Errorf("set owner reference on deployment %s: %w", desired.Name, err)
		}
		if err := c.Create(ctx, desired); err != nil {
			return Result{}, fmt.Errorf("create deployment %s: %w", desired.Name, err)
		}
		return Result{Created: true}, nil
	case err != nil:
		return Result{}, fmt.Errorf("get deployment %s: %w", desired.Name, err)
	}

	if !isControlledBy(current, owner) {
		return Result{}, fmt.Errorf("%w: deployment %s/%s exists without an owner reference to this tunnel", cf.ErrOwnershipConflict, desired.Namespace, desired.Name)
	}

	if hashPodTemplate(current.Spec.Template) == hashPodTemplate(desired.Spec.Template) {
		return Result{}, nil
	}

	if err := controller.UpdateWithConflictRetry(ctx, c, current, func() {
		current.Spec.Template = desired.Spec.Template
	}); err != nil {
		return Result{}, fmt.Errorf("patch deployment %s: %w", desired.Name, err)
	}
	return Result{Updated: true}, nil
}

func isControlledBy(obj client.Object, owner client.Object) bool {
	for _, ref := range obj.GetOwnerReferences() {
		if ref.Controller != nil && *ref.Controller && ref.UID == owner.GetUID() {
			return true
		}
	}
	return false
}

// hashSecretData hashes Secret data via sigs.k8s.io/yaml so that StringData
// vs Data base64 quirks never produce a spurious diff.
func hashSecretData(data map[string][]byte) string {
	b, err := yaml.Marshal(data)
	if err != nil {
		return ""
	}
	return sum(b)
}

// hashPodTemplate hashes a Deployment's Pod template spec, the only part of
// the Deployment this package reconciles.
func hashPodTemplate(tmpl corev1.PodTemplateSpec) string {
	b, err := yaml.Marshal(tmpl)
	if err != nil {
		return ""
	}
	return sum(b)
}

func sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
