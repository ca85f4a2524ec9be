// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AccessOptions configures Cloudflare Access protection for an origin.
type AccessOptions struct {
	// Required indicates whether Access authentication is enforced for this origin.
	// +kubebuilder:validation:Optional
	Required *bool `json:"required,omitempty" yaml:"required,omitempty"`

	// TeamName is the Cloudflare Access team name used to validate the JWT.
	// +kubebuilder:validation:Optional
	TeamName string `json:"teamName,omitempty" yaml:"teamName,omitempty"`

	// AudTag lists the Access application audience tags accepted for this origin.
	// +kubebuilder:validation:Optional
	AudTag []string `json:"audTag,omitempty" yaml:"audTag,omitempty"`
}

// OriginRequestOptions mirrors cloudflared's per-origin configuration bag.
// Every field is optional; unset fields fall back to the parent default.
type OriginRequestOptions struct {
	// +kubebuilder:validation:Optional
	ConnectTimeout string `json:"connectTimeout,omitempty" yaml:"connectTimeout,omitempty"`

	// +kubebuilder:validation:Optional
	TLSTimeout string `json:"tlsTimeout,omitempty" yaml:"tlsTimeout,omitempty"`

	// +kubebuilder:validation:Optional
	TCPKeepAlive string `json:"tcpKeepAlive,omitempty" yaml:"tcpKeepAlive,omitempty"`

	// +kubebuilder:validation:Optional
	NoHappyEyeballs *bool `json:"noHappyEyeballs,omitempty" yaml:"noHappyEyeballs,omitempty"`

	// +kubebuilder:validation:Optional
	KeepAliveConnections *uint32 `json:"keepAliveConnections,omitempty" yaml:"keepAliveConnections,omitempty"`

	// +kubebuilder:validation:Optional
	KeepAliveTimeout string `json:"keepAliveTimeout,omitempty" yaml:"keepAliveTimeout,omitempty"`

	// +kubebuilder:validation:Optional
	HTTPHostHeader string `json:"httpHostHeader,omitempty" yaml:"httpHostHeader,omitempty"`

	// +kubebuilder:validation:Optional
	OriginServerName string `json:"originServerName,omitempty" yaml:"originServerName,omitempty"`

	// CAPool names a filesystem path, mounted into the cloudflared container,
	// holding the root CA bundle trusted for this origin's TLS connections.
	// +kubebuilder:validation:Optional
	CAPool *string `json:"caPool,omitempty" yaml:"caPool,omitempty"`

	// +kubebuilder:validation:Optional
	NoTLSVerify *bool `json:"noTLSVerify,omitempty" yaml:"noTLSVerify,omitempty"`

	// +kubebuilder:validation:Optional
	DisableChunkedEncoding *bool `json:"disableChunkedEncoding,omitempty" yaml:"disableChunkedEncoding,omitempty"`

	// +kubebuilder:validation:Optional
	HTTP2Origin *bool `json:"http2Origin,omitempty" yaml:"http2Origin,omitempty"`

	// +kubebuilder:validation:Optional
	ProxyAddress string `json:"proxyAddress,omitempty" yaml:"proxyAddress,omitempty"`

	// +kubebuilder:validation:Optional
	ProxyPort *uint16 `json:"proxyPort,omitempty" yaml:"proxyPort,omitempty"`

	// +kubebuilder:validation:Optional
	ProxyType string `json:"proxyType,omitempty" yaml:"proxyType,omitempty"`

	// Access, when set, protects this origin with Cloudflare Access.
	// +kubebuilder:validation:Optional
	Access *AccessOptions `json:"access,omitempty" yaml:"access,omitempty"`
}

// IngressRule is an explicit, statically declared host/path routing rule.
type IngressRule struct {
	// Hostname is the public hostname this rule matches.
	// +kubebuilder:validation:Required
	Hostname string `json:"hostname"`

	// Service is the upstream URL traffic is proxied to, e.g. "http://web.foo.svc:80".
	// +kubebuilder:validation:Required
	Service string `json:"service"`

	// Path, if set, restricts the rule to requests matching this path.
	// +kubebuilder:validation:Optional
	Path string `json:"path,omitempty"`

	// OriginRequest overrides spec.originRequest for this rule only.
	// +kubebuilder:validation:Optional
	OriginRequest *OriginRequestOptions `json:"originRequest,omitempty"`
}

// SecretKeySelector references a Secret by name in the same namespace.
type SecretKeySelector struct {
	// Name of the Secret.
	// +kubebuilder:validation:Required
	Name string `json:"name"`
}

// CloudflaredTunnelSpec defines the desired state of a CloudflaredTunnel.
type CloudflaredTunnelSpec struct {
	// DefaultIngressService is the catch-all upstream used when no other rule matches.
	// +kubebuilder:validation:Required
	DefaultIngressService string `json:"defaultIngressService"`

	// Ingress is an ordered list of explicit host/path rules, evaluated after
	// the rules derived from matching Ingress objects and before the catch-all.
	// +kubebuilder:validation:Optional
	Ingress []IngressRule `json:"ingress,omitempty"`

	// OriginRequest supplies the default per-origin options applied to any rule
	// that does not declare its own override.
	// +kubebuilder:validation:Optional
	OriginRequest *OriginRequestOptions `json:"originRequest,omitempty"`

	// SecretRef names a Secret in this namespace holding Cloudflare API
	// credentials (keys api_token, account_id). When absent, credentials are
	// read from the CLOUDFLARE_API_TOKEN / CLOUDFLARE_ACCOUNT_ID process
	// environment variables.
	// +kubebuilder:validation:Optional
	SecretRef *SecretKeySelector `json:"secretRef,omitempty"`

	// Image overrides the cloudflared container image.
	// +kubebuilder:validation:Optional
	Image string `json:"image,omitempty"`

	// Command overrides the cloudflared container entrypoint.
	// +kubebuilder:validation:Optional
	Command []string `json:"command,omitempty"`

	// Args overrides the cloudflared container arguments.
	// +kubebuilder:validation:Optional
	Args []string `json:"args,omitempty"`
}

// CloudflaredTunnelStatus defines the observed state of a CloudflaredTunnel.
type CloudflaredTunnelStatus struct {
	// TunnelID is the Cloudflare-assigned tunnel UUID once provisioned.
	// +kubebuilder:validation:Optional
	TunnelID string `json:"tunnelId,omitempty"`

	// TunnelSecretRef names the managed Secret holding the tunnel credentials JSON.
	// +kubebuilder:validation:Optional
	TunnelSecretRef string `json:"tunnelSecretRef,omitempty"`

	// ConfigSecretRef names the managed Secret holding the compiled configuration YAML.
	// +kubebuilder:validation:Optional
	ConfigSecretRef string `json:"configSecretRef,omitempty"`

	// ObservedGeneration is the .metadata.generation last reconciled.
	// +kubebuilder:validation:Optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions represent the latest available observations of the tunnel's state.
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:shortName=cfdt
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="TunnelID",type=string,JSONPath=`.status.tunnelId`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// CloudflaredTunnel is the Schema for the cloudflaredtunnels API.
type CloudflaredTunnel struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CloudflaredTunnelSpec   `json:"spec,omitempty"`
	Status CloudflaredTunnelStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// CloudflaredTunnelList contains a list of CloudflaredTunnel.
type CloudflaredTunnelList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CloudflaredTunnel `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CloudflaredTunnel{}, &CloudflaredTunnelList{})
}
