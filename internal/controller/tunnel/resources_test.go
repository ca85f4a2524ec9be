// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
)

func testTunnel(namespace, name string) *v1alpha1.CloudflaredTunnel {
	return &v1alpha1.CloudflaredTunnel{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
	}
}

func TestDesiredDeploymentUsesPackageDefaultImageWhenUnset(t *testing.T) {
	deploy := desiredDeployment(testTunnel("apps", "web"), "web-cloudflared-credentials", "web-cloudflared-config", "hash", "")
	assert.Equal(t, defaultImage, deploy.Spec.Template.Spec.Containers[0].Image)
	assert.Equal(t, defaultCommand, deploy.Spec.Template.Spec.Containers[0].Command)
	assert.Equal(t, defaultArgs, deploy.Spec.Template.Spec.Containers[0].Args)
}

func TestDesiredDeploymentPrefersOperatorDefaultImageOverPackageDefault(t *testing.T) {
	deploy := desiredDeployment(testTunnel("apps", "web"), "web-cloudflared-credentials", "web-cloudflared-config", "hash", "example.com/cloudflared:pinned")
	assert.Equal(t, "example.com/cloudflared:pinned", deploy.Spec.Template.Spec.Containers[0].Image)
}

func TestDesiredDeploymentHonorsSpecImageOverEverything(t *testing.T) {
	owner := testTunnel("apps", "web")
	owner.Spec.Image = "example.com/cloudflared:custom"
	deploy := desiredDeployment(owner, "web-cloudflared-credentials", "web-cloudflared-config", "hash", "example.com/cloudflared:pinned")
	assert.Equal(t, "example.com/cloudflared:custom", deploy.Spec.Template.Spec.Containers[0].Image)
}

func TestDesiredDeploymentHonorsSpecCommandAndArgs(t *testing.T) {
	owner := testTunnel("apps", "web")
	owner.Spec.Command = []string{"/bin/cloudflared"}
	owner.Spec.Args = []string{"tunnel", "run", "--no-autoupdate"}
	deploy := desiredDeployment(owner, "web-cloudflared-credentials", "web-cloudflared-config", "hash", "")
	assert.Equal(t, []string{"/bin/cloudflared"}, deploy.Spec.Template.Spec.Containers[0].Command)
	assert.Equal(t, []string{"tunnel", "run", "--no-autoupdate"}, deploy.Spec.Template.Spec.Containers[0].Args)
}

func TestDesiredDeploymentMountsCredentialsAndConfigSecrets(t *testing.T) {
	deploy := desiredDeployment(testTunnel("apps", "web"), "web-cloudflared-credentials", "web-cloudflared-config", "hash", "")
	mounted := map[string]string{}
	for _, v := range deploy.Spec.Template.Spec.Volumes {
		if v.Secret != nil {
			mounted[v.Name] = v.Secret.SecretName
		}
	}
	assert.Equal(t, "web-cloudflared-credentials", mounted[credentialsVolumeName])
	assert.Equal(t, "web-cloudflared-config", mounted[configVolumeName])
	assert.Equal(t, "hash", deploy.Spec.Template.Annotations[ConfigHashAnnotation])
}

func TestDesiredDeploymentSetsDeterministicName(t *testing.T) {
	deploy := desiredDeployment(testTunnel("apps", "web"), "", "", "", "")
	assert.Equal(t, "web-cloudflared", deploy.Name)
	assert.Equal(t, "apps", deploy.Namespace)
}

func TestNamingHelpersAreDeterministic(t *testing.T) {
	assert.Equal(t, "web-cloudflared-credentials", credentialsSecretName("web"))
	assert.Equal(t, "web-cloudflared-config", configSecretName("web"))
	assert.Equal(t, "web-cloudflared", deploymentName("web"))
}

func TestDesiredCredentialsSecretCarriesRawJSONUnderFixedKey(t *testing.T) {
	secret := desiredCredentialsSecret(testTunnel("apps", "web"), `{"TunnelID":"abc"}`)
	assert.Equal(t, "web-cloudflared-credentials", secret.Name)
	assert.Equal(t, "apps", secret.Namespace)
	assert.Equal(t, `{"TunnelID":"abc"}`, string(secret.Data[CredentialsSecretKey]))
}

func TestDesiredConfigSecretCarriesYAMLUnderFixedKey(t *testing.T) {
	secret := desiredConfigSecret(testTunnel("apps", "web"), []byte("tunnel: abc\n"))
	assert.Equal(t, "web-cloudflared-config", secret.Name)
	assert.Equal(t, "tunnel: abc\n", string(secret.Data[ConfigSecretKey]))
}
