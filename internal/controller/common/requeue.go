// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package common

import (
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/chalharu/cloudflared-tunnel-operator/internal/clients/cf"
)

// RequeueForError returns an appropriate requeue result based on the error type,
// using the shared exponential backoff shape (1s base, 10min cap).
func RequeueForError(err error, retryCount int) ctrl.Result {
	if err == nil {
		return ctrl.Result{}
	}

	cfg := cf.DefaultRetryConfig()
	cfg.RetryCount = retryCount

	delay := cf.GetRequeueDelay(err, cfg)
	if delay == 0 {
		// NotFound and ConfigError don't need requeue.
		return ctrl.Result{}
	}

	return ctrl.Result{RequeueAfter: delay}
}
