// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

// MaxNameCollisionAttempts bounds the number of times Provisioner.Ensure
// retries tunnel creation after a RemoteConflict by choosing a new random
// name suffix.
const MaxNameCollisionAttempts = 5

// TunnelCredentialsFile is the JSON document written to the credentials Secret.
type TunnelCredentialsFile struct {
	AccountTag   string `json:"AccountTag"`
	TunnelID     string `json:"TunnelID"`
	TunnelName   string `json:"TunnelName"`
	TunnelSecret string `json:"TunnelSecret"`
}

// Provisioner drives idempotent tunnel lifecycle operations on behalf of the
// tunnel controller, on top of the thin CloudflareClient adapter.
type Provisioner struct {
	Client    CloudflareClient
	AccountID string
	Log       logr.Logger
}

// NewProvisioner builds a Provisioner bound to accountID.
func NewProvisioner(client CloudflareClient, accountID string, log logr.Logger) *Provisioner {
	return &Provisioner{Client: client, AccountID: accountID, Log: log}
}

// randomSuffix returns a short, URL-safe random string for tunnel naming.
func randomSuffix() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func newTunnelSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ProvisionResult carries the outcome of Ensure.
type ProvisionResult struct {
	TunnelID       string
	TunnelName     string
	CredentialsRaw string // JSON-marshaled TunnelCredentialsFile, non-empty only when a tunnel was just created
}

// Ensure drives tunnel provisioning:
//   - if existingTunnelID is set and still exists remotely, it is reused as-is
//   - if existingTunnelID is set but GetTunnel reports RemoteNotFound, a fresh
//     tunnel is created under a freshly randomized name
//   - if existingTunnelID is empty, a fresh tunnel is created
//
// namePrefix is "<namespace>-<name>"; Ensure appends "-<random>" itself and
// retries with a new suffix up to MaxNameCollisionAttempts times on
// RemoteConflict. Callers with an empty existingTunnelID should try Recover
// first to avoid creating a duplicate tunnel after a crash.
func (p *Provisioner) Ensure(ctx context.Context, namePrefix, existingTunnelID string) (ProvisionResult, error) {
	if existingTunnelID != "" {
		t, err := p.Client.GetTunnel(ctx, p.AccountID, existingTunnelID)
		switch {
		case err == nil:
			return ProvisionResult{TunnelID: t.ID, TunnelName: t.Name}, nil
		case errors.Is(err, ErrRemoteNotFound):
			p.Log.Info("tunnel missing remotely, re-provisioning", "tunnelId", existingTunnelID)
		default:
			return ProvisionResult{}, err
		}
	}

	var lastErr error
	for attempt := 0; attempt < MaxNameCollisionAttempts; attempt++ {
		suffix, err := randomSuffix()
		if err != nil {
			return ProvisionResult{}, fmt.Errorf("%w: generate tunnel suffix: %v", ErrConfigError, err)
		}
		name := fmt.Sprintf("%s-%s", namePrefix, suffix)

		secret, err := newTunnelSecret()
		if err != nil {
			return ProvisionResult{}, fmt.Errorf("%w: generate tunnel secret: %v", ErrConfigError, err)
		}

		t, err := p.Client.CreateTunnel(ctx, p.AccountID, name, secret)
		if err != nil {
			if errors.Is(err, ErrRemoteConflict) {
				lastErr = err
				p.Log.Info("tunnel name collision, retrying with new suffix", "name", name, "attempt", attempt+1)
				continue
			}
			return ProvisionResult{}, err
		}

		creds := TunnelCredentialsFile{
			AccountTag:   p.AccountID,
			TunnelID:     t.ID,
			TunnelName:   t.Name,
			TunnelSecret: secret,
		}
		raw, err := json.Marshal(creds)
		if err != nil {
			return ProvisionResult{}, fmt.Errorf("marshal tunnel credentials: %w", err)
		}

		return ProvisionResult{TunnelID: t.ID, TunnelName: t.Name, CredentialsRaw: string(raw)}, nil
	}

	return ProvisionResult{}, fmt.Errorf("%w: exhausted %d naming attempts: %v", ErrRemoteConflict, MaxNameCollisionAttempts, lastErr)
}

// Recover looks up a tunnel by name when status.tunnel_id is missing but a
// tunnel with the expected name convention might already exist (e.g. an
// earlier reconcile created it but crashed before persisting status).
func (p *Provisioner) Recover(ctx context.Context, namePrefix string) (ProvisionResult, bool, error) {
	tunnels, err := p.Client.ListTunnels(ctx, p.AccountID, "")
	if err != nil {
		return ProvisionResult{}, false, err
	}
	for _, t := range tunnels {
		if t.DeletedAt != nil {
			continue
		}
		if len(t.Name) > len(namePrefix) && t.Name[:len(namePrefix)+1] == namePrefix+"-" {
			return ProvisionResult{TunnelID: t.ID, TunnelName: t.Name}, true, nil
		}
	}
	return ProvisionResult{}, false, nil
}

// Delete removes the remote tunnel. It is idempotent: deleting an
// already-gone tunnel returns nil.
func (p *Provisioner) Delete(ctx context.Context, tunnelID string) error {
	if tunnelID == "" {
		return nil
	}
	return p.Client.DeleteTunnel(ctx, p.AccountID, tunnelID)
}
