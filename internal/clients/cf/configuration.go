// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

// Configuration is the cloudflared configuration.yaml model.
// https://github.com/cloudflare/cloudflared/blob/master/config/configuration.go
// Both yaml and json tags are required because sigs.k8s.io/yaml uses
// json.Marshal internally, which only recognizes json tags.
type Configuration struct {
	TunnelID      string                   `yaml:"tunnel" json:"tunnel"`
	SourceFile    string                   `yaml:"credentials-file" json:"credentials-file"`
	OriginRequest OriginRequestConfig      `yaml:"originRequest,omitempty" json:"originRequest,omitempty"`
	Ingress       []UnvalidatedIngressRule `yaml:"ingress" json:"ingress"`
}

// UnvalidatedIngressRule is a single cloudflared ingress entry.
type UnvalidatedIngressRule struct {
	Hostname      string              `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Path          string              `yaml:"path,omitempty" json:"path,omitempty"`
	Service       string              `yaml:"service" json:"service"`
	OriginRequest OriginRequestConfig `yaml:"originRequest,omitempty" json:"originRequest,omitempty"`
}

// AccessConfig protects an origin with Cloudflare Access.
type AccessConfig struct {
	Required *bool    `yaml:"required,omitempty" json:"required,omitempty"`
	TeamName string   `yaml:"teamName,omitempty" json:"teamName,omitempty"`
	AudTag   []string `yaml:"audTag,omitempty" json:"audTag,omitempty"`
}

// OriginRequestConfig is the cloudflared per-origin configuration bag.
type OriginRequestConfig struct {
	ConnectTimeout         string        `yaml:"connectTimeout,omitempty" json:"connectTimeout,omitempty"`
	TLSTimeout             string        `yaml:"tlsTimeout,omitempty" json:"tlsTimeout,omitempty"`
	TCPKeepAlive           string        `yaml:"tcpKeepAlive,omitempty" json:"tcpKeepAlive,omitempty"`
	NoHappyEyeballs        *bool         `yaml:"noHappyEyeballs,omitempty" json:"noHappyEyeballs,omitempty"`
	KeepAliveConnections   *uint32       `yaml:"keepAliveConnections,omitempty" json:"keepAliveConnections,omitempty"`
	KeepAliveTimeout       string        `yaml:"keepAliveTimeout,omitempty" json:"keepAliveTimeout,omitempty"`
	HTTPHostHeader         string        `yaml:"httpHostHeader,omitempty" json:"httpHostHeader,omitempty"`
	OriginServerName       string        `yaml:"originServerName,omitempty" json:"originServerName,omitempty"`
	CAPool                 *string       `yaml:"caPool,omitempty" json:"caPool,omitempty"`
	NoTLSVerify            *bool         `yaml:"noTLSVerify,omitempty" json:"noTLSVerify,omitempty"`
	DisableChunkedEncoding *bool         `yaml:"disableChunkedEncoding,omitempty" json:"disableChunkedEncoding,omitempty"`
	HTTP2Origin            *bool         `yaml:"http2Origin,omitempty" json:"http2Origin,omitempty"`
	ProxyAddress           string        `yaml:"proxyAddress,omitempty" json:"proxyAddress,omitempty"`
	ProxyPort              *uint16       `yaml:"proxyPort,omitempty" json:"proxyPort,omitempty"`
	ProxyType              string        `yaml:"proxyType,omitempty" json:"proxyType,omitempty"`
	Access                 *AccessConfig `yaml:"access,omitempty" json:"access,omitempty"`
}

// IsZero reports whether o carries no overrides at all.
func (o OriginRequestConfig) IsZero() bool {
	return o == OriginRequestConfig{}
}
