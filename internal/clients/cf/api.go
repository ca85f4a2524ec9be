// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

import (
	"context"
	"fmt"

	"github.com/cloudflare/cloudflare-go"
)

// apiClient implements CloudflareClient against the real Cloudflare API via
// github.com/cloudflare/cloudflare-go.
type apiClient struct {
	cf *cloudflare.API
}

// NewClient builds a CloudflareClient authenticated with apiToken.
func NewClient(apiToken string) (CloudflareClient, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("%w: empty API token", ErrConfigError)
	}
	c, err := cloudflare.NewWithAPIToken(apiToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigError, err)
	}
	return &apiClient{cf: c}, nil
}

func (a *apiClient) CreateTunnel(ctx context.Context, accountID, name, secret string) (Tunnel, error) {
	rc := cloudflare.AccountIdentifier(accountID)
	params := cloudflare.TunnelCreateParams{
		Name:      name,
		Secret:    secret,
		ConfigSrc: "cloudflare",
	}
	t, err := a.cf.CreateTunnel(ctx, rc, params)
	if err != nil {
		return Tunnel{}, ClassifyRemoteError("CreateTunnel", name, err)
	}
	return Tunnel{ID: t.ID, Name: t.Name}, nil
}

func (a *apiClient) ListTunnels(ctx context.Context, accountID, nameFilter string) ([]Tunnel, error) {
	rc := cloudflare.AccountIdentifier(accountID)
	params := cloudflare.TunnelListParams{Name: nameFilter}
	tunnels, _, err := a.cf.ListTunnels(ctx, rc, params)
	if err != nil {
		return nil, ClassifyRemoteError("ListTunnels", nameFilter, err)
	}
	out := make([]Tunnel, 0, len(tunnels))
	for _, t := range tunnels {
		tun := Tunnel{ID: t.ID, Name: t.Name}
		if !t.DeletedAt.IsZero() {
			s := t.DeletedAt.String()
			tun.DeletedAt = &s
		}
		out = append(out, tun)
	}
	return out, nil
}

func (a *apiClient) DeleteTunnel(ctx context.Context, accountID, tunnelID string) error {
	rc := cloudflare.AccountIdentifier(accountID)

	if err := a.cf.CleanupTunnelConnections(ctx, rc, tunnelID); err != nil {
		if !IsNotFoundError(err) {
			return ClassifyRemoteError("CleanupTunnelConnections", tunnelID, err)
		}
	}

	if err := a.cf.DeleteTunnel(ctx, rc, tunnelID); err != nil {
		if IsNotFoundError(err) {
			return nil
		}
		return ClassifyRemoteError("DeleteTunnel", tunnelID, err)
	}
	return nil
}

func (a *apiClient) GetTunnel(ctx context.Context, accountID, tunnelID string) (Tunnel, error) {
	rc := cloudflare.AccountIdentifier(accountID)
	t, err := a.cf.GetTunnel(ctx, rc, tunnelID)
	if err != nil {
		return Tunnel{}, ClassifyRemoteError("GetTunnel", tunnelID, err)
	}
	return Tunnel{ID: t.ID, Name: t.Name}, nil
}
