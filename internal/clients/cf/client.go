// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

//go:generate mockgen -destination=mock/mock_client.go -package=mock github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf CloudflareClient

package cf

import "context"

// Tunnel is the subset of a Cloudflare tunnel record the controller needs.
type Tunnel struct {
	ID        string
	Name      string
	DeletedAt *string
}

// CloudflareClient is the adapter surface consumed by the tunnel controller.
// It covers exactly the tunnel-lifecycle operations named in the component
// design: create, list, delete, get. Everything else the underlying SDK
// exposes (DNS, Access, Gateway, ...) is out of scope for this operator.
type CloudflareClient interface {
	// CreateTunnel provisions a new remotely-managed tunnel named name with
	// the given 32-byte secret, scoped to accountID.
	CreateTunnel(ctx context.Context, accountID, name, secret string) (Tunnel, error)

	// ListTunnels returns tunnels in accountID whose name equals nameFilter.
	// An empty nameFilter applies no name filter and lists every tunnel.
	ListTunnels(ctx context.Context, accountID, nameFilter string) ([]Tunnel, error)

	// DeleteTunnel deletes tunnelID from accountID. Implementations must
	// translate "not found" into a nil error (idempotent delete).
	DeleteTunnel(ctx context.Context, accountID, tunnelID string) error

	// GetTunnel fetches tunnelID from accountID, returning a wrapped
	// ErrRemoteNotFound if it does not exist.
	GetTunnel(ctx context.Context, accountID, tunnelID string) (Tunnel, error)
}
