package controller

import (
	"context"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/credentials"
)

// NewCloudflareClientFunc builds a cf.CloudflareClient from an API token.
// Exists as a seam so tests can inject a mock in place of cf.NewClient.
type NewCloudflareClientFunc func(apiToken string) (cf.CloudflareClient, error)

// ResolveClient loads Cloudflare API credentials for a CloudflaredTunnel
// (from spec.secretRef when set, otherwise from the process environment) and
// builds a cf.CloudflareClient plus the resolved account ID. newClient
// defaults to cf.NewClient when nil.
//
// Any failure here is a terminal configuration problem: the returned error is
// always wrapped in cf.ErrConfigError and must not be retried by the caller.
func ResolveClient(ctx context.Context, c client.Client, log logr.Logger, namespace, secretRefName string, newClient NewCloudflareClientFunc) (cf.CloudflareClient, string, error) {
	if newClient == nil {
		newClient = cf.NewClient
	}

	loader := credentials.NewLoader(c, log)
	creds, err := loader.Load(ctx, namespace, secretRefName)
	if err != nil {
		return nil, "", err
	}

	cfClient, err := newClient(creds.APIToken)
	if err != nil {
		return nil, "", err
	}
	return cfClient, creds.AccountID, nil
}
