// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package tunnel

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/chalharu/cloudflared-tunnel-operator/api/v1alpha1"
)

const (
	// ConfigHashAnnotation triggers a Deployment rollout when the rendered
	// configuration changes.
	ConfigHashAnnotation = "chalharu.top/config-hash"

	// CredentialsSecretKey is the single key in the credentials Secret.
	CredentialsSecretKey = "credentials.json"

	// ConfigSecretKey is the single key in the configuration Secret.
	ConfigSecretKey = "config.yaml"

	credentialsMountPath = "/etc/cloudflared/creds"
	configMountPath      = "/etc/cloudflared"

	defaultImage = "docker.io/cloudflare/cloudflared:latest"

	credentialsVolumeName = "creds"
	configVolumeName      = "config"
)

var (
	defaultCommand = []string{"cloudflared"}
	defaultArgs    = []string{"tunnel", "--config", "/etc/cloudflared/config.yaml", "run"}
)

func credentialsSecretName(tunnelName string) string {
	return tunnelName + "-cloudflared-credentials"
}

func configSecretName(tunnelName string) string {
	return tunnelName + "-cloudflared-config"
}

func deploymentName(tunnelName string) string {
	return tunnelName + "-cloudflared"
}

func desiredCredentialsSecret(owner *v1alpha1.CloudflaredTunnel, credentialsJSON string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      credentialsSecretName(owner.Name),
			Namespace: owner.Namespace,
		},
		Data: map[string][]byte{
			CredentialsSecretKey: []byte(credentialsJSON),
		},
	}
}

func desiredConfigSecret(owner *v1alpha1.CloudflaredTunnel, configYAML []byte) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      configSecretName(owner.Name),
			Namespace: owner.Namespace,
		},
		Data: map[string][]byte{
			ConfigSecretKey: configYAML,
		},
	}
}

func desiredDeployment(owner *v1alpha1.CloudflaredTunnel, credentialsSecret, configSecret, configHash, defaultAgentImage string) *appsv1.Deployment {
	image := owner.Spec.Image
	if image == "" {
		image = defaultAgentImage
		if image == "" {
			image = defaultImage
		}
	}
	command := owner.Spec.Command
	if len(command) == 0 {
		command = defaultCommand
	}
	args := owner.Spec.Args
	if len(args) == 0 {
		args = defaultArgs
	}

	labels := map[string]string{
		"app.kubernetes.io/managed-by": "cloudflared-tunnel-operator",
		"chalharu.top/tunnel":          owner.Name,
	}

	replicas := int32(1)

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      deploymentName(owner.Name),
			Namespace: owner.Namespace,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
					Annotations: map[string]string{
						ConfigHashAnnotation: configHash,
					},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:    "cloudflared",
							Image:   image,
							Command: command,
							Args:    args,
							VolumeMounts: []corev1.VolumeMount{
								{Name: credentialsVolumeName, MountPath: credentialsMountPath, ReadOnly: true},
								{Name: configVolumeName, MountPath: configMountPath, ReadOnly: true},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: credentialsVolumeName,
							VolumeSource: corev1.VolumeSource{
								Secret: &corev1.SecretVolumeSource{SecretName: credentialsSecret},
							},
						},
						{
							Name: configVolumeName,
							VolumeSource: corev1.VolumeSource{
								Secret: &corev1.SecretVolumeSource{SecretName: configSecret},
							},
						},
					},
				},
			},
		},
	}
}
