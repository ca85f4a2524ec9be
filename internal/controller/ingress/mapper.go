// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package ingress translates Ingress and IngressClass watch events into
// reconcile requests for the CloudflaredTunnel(s) they resolve to. It never
// reads or writes Ingress or tunnel state beyond the lookups needed to
// resolve that mapping — all convergence happens in the tunnel controller.
package ingress

import (
	"context"

	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/chalharu/cloudflared-tunnel-operator/internal/ingressclass"
)

// Mapper resolves Ingress/IngressClass watch events to the
// reconcile.Requests of the CloudflaredTunnel(s) they affect. It is
// composed into the tunnel controller's own watch registration rather than
// run as a second controller: controller-runtime already serializes and
// dedupes a single controller's work queue across multiple watch sources,
// so a standalone reconcile loop re-deriving the same keys would just be
// redundant machinery racing the real one.
type Mapper struct {
	Resolver *ingressclass.Resolver
}

// NewMapper builds a Mapper backed by resolver.
func NewMapper(resolver *ingressclass.Resolver) *Mapper {
	return &Mapper{Resolver: resolver}
}

// MapIngress resolves the tunnel an Ingress create/update/delete event
// affects. handler.EnqueueRequestsFromMapFunc hands this the last-known
// object body even for deletes, so the previously resolved target is still
// fanned out after the Ingress itself is gone.
func (m *Mapper) MapIngress(ctx context.Context, obj client.Object) []reconcile.Request {
	ing, ok := obj.(*networkingv1.Ingress)
	if !ok {
		return nil
	}
	target, err := m.Resolver.Resolve(ctx, ing)
	if err != nil {
		return nil
	}
	return []reconcile.Request{{NamespacedName: types.NamespacedName{Name: target.Name, Namespace: target.Namespace}}}
}

// MapIngressClass fans an IngressClass change out to every tunnel currently
// reachable through it, resolving each referencing Ingress independently
// since the default target namespace falls back to the Ingress's own.
//
// It resolves against the IngressClass body it was handed rather than
// re-fetching by name, so a delete event (where the object is already gone
// from the watch cache) still fans out correctly.
func (m *Mapper) MapIngressClass(ctx context.Context, obj client.Object) []reconcile.Request {
	class, ok := obj.(*networkingv1.IngressClass)
	if !ok {
		return nil
	}
	targets, err := m.Resolver.ResolveAllForClass(ctx, class)
	if err != nil || len(targets) == 0 {
		return nil
	}
	reqs := make([]reconcile.Request, 0, len(targets))
	for _, target := range targets {
		reqs = append(reqs, reconcile.Request{NamespacedName: types.NamespacedName{Name: target.Name, Namespace: target.Namespace}})
	}
	return reqs
}
