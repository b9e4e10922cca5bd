// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/tomtom215/airscope/internal/logging"
	"github.com/tomtom215/airscope/internal/metrics"
	"github.com/tomtom215/airscope/internal/pipeline"
	"github.com/tomtom215/airscope/internal/report"
)

type renderFunc func(io.Writer, *pipeline.Result) error

// ExportCSV downloads the filtered table with its Cluster column.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "csv", report.CSVMediaType, report.CSVFilename, report.WriteCSV)
}

// ExportXLSX downloads the filtered table as a workbook.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "xlsx", report.XLSXMediaType, report.XLSXFilename, report.WriteXLSX)
}

// Dashboard renders every chart of the result as one HTML page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	res, _, ok := h.clusterResult(w, r)
	if !ok {
		return
	}
	h.write(w, r, "text/html; charset=utf-8", "", res, report.RenderDashboard)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, format, mediaType, filename string, render renderFunc) {
	res, _, ok := h.clusterResult(w, r)
	if !ok {
		return
	}
	if h.write(w, r, mediaType, filename, res, render) {
		metrics.RecordExport(format)
	}
}

// write renders into memory first so a failed render can still produce a
// JSON error instead of a truncated body.
func (h *Handler) write(w http.ResponseWriter, r *http.Request, mediaType, filename string, res *pipeline.Result, render renderFunc) bool {
	var buf bytes.Buffer
	if err := render(&buf, res); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("media_type", mediaType).Msg("Render failed")
		NewResponseWriter(w, r).InternalError("Failed to render output")
		return false
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write response body")
	}
	return true
}
