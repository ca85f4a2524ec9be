/*
Copyright 2024.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package credentials resolves the Cloudflare API credentials a
// CloudflaredTunnel reconcile needs, from either a namespaced Secret or the
// operator process environment.
package credentials

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
)

const (
	// SecretKeyAPIToken is the Secret data key holding the Cloudflare API token.
	SecretKeyAPIToken = "api_token"

	// SecretKeyAccountID is the Secret data key holding the Cloudflare account ID.
	SecretKeyAccountID = "account_id"

	// EnvAPIToken is the environment variable consulted when spec.secretRef is unset.
	EnvAPIToken = "CLOUDFLARE_API_TOKEN"

	// EnvAccountID is the environment variable consulted when spec.secretRef is unset.
	EnvAccountID = "CLOUDFLARE_ACCOUNT_ID"
)

// Credentials holds the resolved Cloudflare API token and account ID.
type Credentials struct {
	APIToken  string
	AccountID string
}

// Loader resolves Credentials for a CloudflaredTunnel.
type Loader struct {
	client client.Client
	log    logr.Logger
}

// NewLoader builds a Loader.
func NewLoader(c client.Client, log logr.Logger) *Loader {
	return &Loader{client: c, log: log}
}

// Load resolves credentials for a tunnel in namespace, optionally backed by a
// Secret named secretRefName. An empty secretRefName falls back to the
// process environment. Any failure to resolve complete credentials is
// returned wrapped in cf.ErrConfigError, which callers must treat as
// terminal (no retry) per the tunnel reconciler's error taxonomy.
func (l *Loader) Load(ctx context.Context, namespace, secretRefName string) (Credentials, error) {
	if secretRefName != "" {
		return l.loadFromSecret(ctx, namespace, secretRefName)
	}
	return l.loadFromEnv()
}

func (l *Loader) loadFromSecret(ctx context.Context, namespace, name string) (Credentials, error) {
	secret := &corev1.Secret{}
	key := types.NamespacedName{Namespace: namespace, Name: name}
	if err := l.client.Get(ctx, key, secret); err != nil {
		return Credentials{}, fmt.Errorf("%w: get credentials secret %s/%s: %v", cf.ErrConfigError, namespace, name, err)
	}

	token := string(secret.Data[SecretKeyAPIToken])
	account := string(secret.Data[SecretKeyAccountID])
	if token == "" {
		return Credentials{}, fmt.Errorf("%w: credentials secret %s/%s missing key %q", cf.ErrConfigError, namespace, name, SecretKeyAPIToken)
	}
	if account == "" {
		return Credentials{}, fmt.Errorf("%w: credentials secret %s/%s missing key %q", cf.ErrConfigError, namespace, name, SecretKeyAccountID)
	}

	l.log.V(1).Info("resolved credentials from secret", "namespace", namespace, "secret", name)
	return Credentials{APIToken: token, AccountID: account}, nil
}

func (l *Loader) loadFromEnv() (Credentials, error) {
	token := os.Getenv(EnvAPIToken)
	account := os.Getenv(EnvAccountID)
	if token == "" {
		return Credentials{}, fmt.Errorf("%w: %s is not set and no secretRef was provided", cf.ErrConfigError, EnvAPIToken)
	}
	if account == "" {
		return Credentials{}, fmt.Errorf("%w: %s is not set and no secretRef was provided", cf.ErrConfigError, EnvAccountID)
	}

	l.log.V(1).Info("resolved credentials from process environment")
	return Credentials{APIToken: token, AccountID: account}, nil
}
