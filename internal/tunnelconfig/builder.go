// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package tunnelconfig derives a cloudflared YAML configuration document from
// a CloudflaredTunnel spec and the set of Ingress objects that resolve to it.
// Build has no Kubernetes client dependency: it is a pure function of its
// inputs, so equal inputs always produce byte-identical output.
package tunnelconfig

import (
	"fmt"
	"sort"

	networkingv1 "k8s.io/api/networking/v1"
	"sigs.k8s.io/yaml"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
)

// CredentialsMountPath is where the credentials Secret is mounted in the
// agent container; it must match the volume mount set up by the tunnel
// controller's Deployment template.
const CredentialsMountPath = "/etc/cloudflared/creds/credentials.json"

// SkippedRule records an Ingress path that Build could not translate into a
// cloudflared rule, and why. The tunnel controller surfaces these as Events
// so a broken Ingress doesn't fail silently just because the rest of the
// tunnel's configuration rendered fine.
type SkippedRule struct {
	Namespace string
	Name      string
	Host      string
	Path      string
	Reason    string
}

// Build renders the cloudflared configuration YAML for tunnelID from spec and
// the Ingress objects that currently resolve to this tunnel. ingresses need
// not be pre-sorted; Build sorts a copy by (namespace, name) itself so the
// output is independent of caller-supplied order. The returned SkippedRule
// slice lists every Ingress path that could not be translated into a rule;
// a non-nil, empty slice is never returned (nil means nothing was skipped).
func Build(tunnelID string, spec v1alpha1.CloudflaredTunnelSpec, ingresses []*networkingv1.Ingress) ([]byte, []SkippedRule, error) {
	ordered := make([]*networkingv1.Ingress, len(ingresses))
	copy(ordered, ingresses)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})

	defaultOrigin := convertOrigin(spec.OriginRequest)
	overrides := hostnameOverrides(spec.Ingress)

	var rules []cf.UnvalidatedIngressRule
	var skipped []SkippedRule
	for _, ing := range ordered {
		ingRules, ingSkipped := rulesFromIngress(ing, overrides, defaultOrigin)
		rules = append(rules, ingRules...)
		skipped = append(skipped, ingSkipped...)
	}

	for _, r := range spec.Ingress {
		rules = append(rules, cf.UnvalidatedIngressRule{
			Hostname:      r.Hostname,
			Path:          r.Path,
			Service:       r.Service,
			OriginRequest: originOrDefault(r.OriginRequest, defaultOrigin),
		})
	}

	rules = append(rules, cf.UnvalidatedIngressRule{
		Service:       spec.DefaultIngressService,
		OriginRequest: defaultOrigin,
	})

	cfg := cf.Configuration{
		TunnelID:      tunnelID,
		SourceFile:    CredentialsMountPath,
		OriginRequest: defaultOrigin,
		Ingress:       rules,
	}

	out, err := yaml.Marshal(cfg)
	return out, skipped, err
}

// hostnameOverrides indexes spec.Ingress entries by hostname so rules derived
// from Kubernetes Ingress objects can pick up a matching per-tunnel override.
func hostnameOverrides(rules []v1alpha1.IngressRule) map[string]*v1alpha1.OriginRequestOptions {
	m := make(map[string]*v1alpha1.OriginRequestOptions, len(rules))
	for _, r := range rules {
		if r.OriginRequest != nil {
			m[r.Hostname] = r.OriginRequest
		}
	}
	return m
}

func rulesFromIngress(ing *networkingv1.Ingress, overrides map[string]*v1alpha1.OriginRequestOptions, defaultOrigin cf.OriginRequestConfig) ([]cf.UnvalidatedIngressRule, []SkippedRule) {
	var rules []cf.UnvalidatedIngressRule
	var skipped []SkippedRule
	for _, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		origin := defaultOrigin
		if override, ok := overrides[rule.Host]; ok {
			origin = convertOrigin(override)
		}
		for _, p := range rule.HTTP.Paths {
			backend := backendURL(ing.Namespace, p.Backend)
			if backend == "" {
				skipped = append(skipped, SkippedRule{
					Namespace: ing.Namespace,
					Name:      ing.Name,
					Host:      rule.Host,
					Path:      p.Path,
					Reason:    "no usable Service backend",
				})
				continue
			}
			rules = append(rules, cf.UnvalidatedIngressRule{
				Hostname:      rule.Host,
				Path:          ConvertIngressPathType(p.Path, p.PathType),
				Service:       backend,
				OriginRequest: origin,
			})
		}
	}
	return rules, skipped
}

// backendURL resolves an Ingress backend to the cluster-internal URL the
// tunnel agent should proxy to. Backends that do not name a Service (or name
// one without a usable port) are skipped by the caller rather than emitted
// as a broken rule.
func backendURL(namespace string, backend networkingv1.IngressBackend) string {
	if backend.Service == nil || backend.Service.Name == "" {
		return ""
	}
	port := backend.Service.Port.Number
	if port == 0 {
		return ""
	}
	return fmt.Sprintf("http://%s.%s.svc:%d", backend.Service.Name, namespace, port)
}

func originOrDefault(override *v1alpha1.OriginRequestOptions, fallback cf.OriginRequestConfig) cf.OriginRequestConfig {
	if override == nil {
		return fallback
	}
	return convertOrigin(override)
}

// ConvertIngressPathType converts a Kubernetes Ingress PathType into the
// regex cloudflared expects.
func ConvertIngressPathType(path string, pathType *networkingv1.PathType) string {
	if path == "" || path == "/" {
		return ""
	}

	pt := networkingv1.PathTypePrefix
	if pathType != nil {
		pt = *pathType
	}

	switch pt {
	case networkingv1.PathTypeExact:
		return "^" + path + "$"
	case networkingv1.PathTypePrefix, networkingv1.PathTypeImplementationSpecific:
		if path[len(path)-1] == '/' {
			return path + ".*"
		}
		return path + "(/.*)?$"
	default:
		return path
	}
}

func convertOrigin(o *v1alpha1.OriginRequestOptions) cf.OriginRequestConfig {
	if o == nil {
		return cf.OriginRequestConfig{}
	}
	out := cf.OriginRequestConfig{
		ConnectTimeout:         o.ConnectTimeout,
		TLSTimeout:             o.TLSTimeout,
		TCPKeepAlive:           o.TCPKeepAlive,
		NoHappyEyeballs:        o.NoHappyEyeballs,
		KeepAliveConnections:   o.KeepAliveConnections,
		KeepAliveTimeout:       o.KeepAliveTimeout,
		HTTPHostHeader:         o.HTTPHostHeader,
		OriginServerName:       o.OriginServerName,
		CAPool:                 o.CAPool,
		NoTLSVerify:            o.NoTLSVerify,
		DisableChunkedEncoding: o.DisableChunkedEncoding,
		HTTP2Origin:            o.HTTP2Origin,
		ProxyAddress:           o.ProxyAddress,
		ProxyPort:              o.ProxyPort,
		ProxyType:              o.ProxyType,
	}
	if o.Access != nil {
		out.Access = &cf.AccessConfig{
			Required: o.Access.Required,
			TeamName: o.Access.TeamName,
			AudTag:   o.Access.AudTag,
		}
	}
	return out
}
