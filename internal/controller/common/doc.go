// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package common provides shared utilities for the tunnel controller.
//
// # Architecture Overview
//
// Each CloudflaredTunnel is reconciled directly against the Cloudflare API,
// with no intermediate sync layer:
//
//	CloudflaredTunnel → tunnel.Reconciler → cf.Provisioner / cf.CloudflareClient
//
// The ingress controller never talks to Cloudflare; it only resolves which
// tunnel an Ingress belongs to and enqueues that tunnel for reconciliation.
//
// # Key Components
//
//   - Requeue utilities: RequeueForError, the error-classified backoff used
//     by the tunnel controller
package common
