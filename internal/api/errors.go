// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/logging"
)

// StatusClientClosedRequest is the status recorded when the client
// disconnects before the run finishes.
const StatusClientClosedRequest = 499

// errorStatus maps a pipeline or load error to its HTTP status and code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrCodeClientClosed
	case errors.Is(err, dataset.ErrLoad):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, cluster.ErrNoData):
		return http.StatusUnprocessableEntity, ErrCodeNoData
	case errors.Is(err, cluster.ErrTooFewSamples):
		return http.StatusUnprocessableEntity, ErrCodeTooFewSamples
	case errors.Is(err, cluster.ErrInvalidParameter), errors.Is(err, cluster.ErrUnknownAlgorithm):
		return http.StatusBadRequest, ErrCodeInvalidParameter
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondRunError writes err as an API error. Server-side failures are
// logged and their messages withheld.
func respondRunError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	message := err.Error()

	logger := logging.Ctx(r.Context())
	switch {
	case status == StatusClientClosedRequest:
		logger.Debug().Err(err).Msg("Clustering request canceled by client")
		message = "Request canceled"
	case status == http.StatusServiceUnavailable:
		logger.Error().Err(err).Msg("Dataset unavailable")
		message = "Dataset is not available"
	case status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout:
		logger.Error().Err(err).Msg("Clustering request failed")
		message = "Internal server error"
	default:
		logger.Debug().Err(err).Int("status", status).Msg("Clustering request rejected")
	}
	WriteError(w, r, status, code, message)
}
