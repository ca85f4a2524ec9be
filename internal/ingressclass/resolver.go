// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package ingressclass resolves which CloudflaredTunnel, if any, an Ingress
// belongs to, via the cluster's IngressClass objects.
package ingressclass

import (
	"context"
	"errors"
	"fmt"

	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	apitypes "k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	// ControllerName is the IngressClass controller string this operator owns.
	ControllerName = "chalharu.top/cloudflared-ingress"

	// ParametersAPIGroup is the required apiGroup on IngressClass.spec.parameters.
	ParametersAPIGroup = "chalharu.top"

	// ParametersKind is the required kind on IngressClass.spec.parameters.
	ParametersKind = "CloudflaredTunnel"

	// legacyClassAnnotation is the deprecated ingress-class annotation still
	// honored when spec.ingressClassName is unset.
	legacyClassAnnotation = "kubernetes.io/ingress.class"
)

// ErrNotOurs indicates the Ingress does not resolve to any CloudflaredTunnel
// owned by this operator: either it names no IngressClass, the named class
// isn't controlled by ControllerName, or the class carries no (or a
// mismatched) parameters reference.
var ErrNotOurs = errors.New("ingress does not resolve to a cloudflared tunnel")

// Target identifies the CloudflaredTunnel an Ingress resolves to.
type Target struct {
	Name      string
	Namespace string
}

// Resolver resolves Ingress objects to the CloudflaredTunnel that should
// serve them.
type Resolver struct {
	client.Client
}

// NewResolver builds a Resolver.
func NewResolver(c client.Client) *Resolver {
	return &Resolver{Client: c}
}

// Resolve returns the CloudflaredTunnel target for ing, or ErrNotOurs.
func (r *Resolver) Resolve(ctx context.Context, ing *networkingv1.Ingress) (Target, error) {
	className := ingressClassName(ing)
	if className == "" {
		return Target{}, ErrNotOurs
	}

	class := &networkingv1.IngressClass{}
	if err := r.Get(ctx, apitypes.NamespacedName{Name: className}, class); err != nil {
		if apierrors.IsNotFound(err) {
			return Target{}, fmt.Errorf("%w: ingressclass %q not found", ErrNotOurs, className)
		}
		return Target{}, err
	}

	return r.resolveClass(class, ing.Namespace)
}

func (r *Resolver) resolveClass(class *networkingv1.IngressClass, ingressNamespace string) (Target, error) {
	if class.Spec.Controller != ControllerName {
		return Target{}, ErrNotOurs
	}

	params := class.Spec.Parameters
	if params == nil {
		return Target{}, fmt.Errorf("%w: ingressclass %q has no parameters", ErrNotOurs, class.Name)
	}
	if params.APIGroup == nil || *params.APIGroup != ParametersAPIGroup {
		return Target{}, fmt.Errorf("%w: ingressclass %q parameters apiGroup is not %s", ErrNotOurs, class.Name, ParametersAPIGroup)
	}
	if params.Kind != ParametersKind {
		return Target{}, fmt.Errorf("%w: ingressclass %q parameters kind is not %s", ErrNotOurs, class.Name, ParametersKind)
	}

	namespace := ingressNamespace
	if params.Namespace != nil && *params.Namespace != "" {
		namespace = *params.Namespace
	}

	return Target{Name: params.Name, Namespace: namespace}, nil
}

// IngressesFor enumerates Ingresses in the cluster whose Resolve result
// equals target. Used by the tunnel controller to gather the current input
// set for the configuration builder.
func (r *Resolver) IngressesFor(ctx context.Context, target Target) ([]*networkingv1.Ingress, error) {
	list := &networkingv1.IngressList{}
	if err := r.List(ctx, list); err != nil {
		return nil, err
	}

	var matches []*networkingv1.Ingress
	for i := range list.Items {
		ing := &list.Items[i]
		resolved, err := r.Resolve(ctx, ing)
		if err != nil {
			continue
		}
		if resolved == target {
			matches = append(matches, ing)
		}
	}
	return matches, nil
}

// ResolveAllForClass returns the distinct targets of every Ingress in the
// cluster currently naming class.Name, resolved independently (the default
// target namespace falls back to each Ingress's own namespace, so two
// Ingresses naming the same class can resolve to different tunnels). Used to
// fan an IngressClass change out to every tunnel it affects.
//
// class is resolved against directly rather than re-fetched by name: on a
// delete event the object is already gone from the cache, so a lookup by
// name would return NotFound and silently drop the fan-out.
func (r *Resolver) ResolveAllForClass(ctx context.Context, class *networkingv1.IngressClass) ([]Target, error) {
	list := &networkingv1.IngressList{}
	if err := r.List(ctx, list); err != nil {
		return nil, err
	}

	seen := map[Target]struct{}{}
	var targets []Target
	for i := range list.Items {
		ing := &list.Items[i]
		if ingressClassName(ing) != class.Name {
			continue
		}
		target, err := r.resolveClass(class, ing.Namespace)
		if err != nil {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}
	return targets, nil
}

func ingressClassName(ing *networkingv1.Ingress) string {
	if ing.Spec.IngressClassName != nil && *ing.Spec.IngressClassName != "" {
		return *ing.Spec.IngressClassName
	}
	if name, ok := ing.Annotations[legacyClassAnnotation]; ok && name != "" {
		return name
	}
	return ""
}
