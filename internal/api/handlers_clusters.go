// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"net/http"

	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/pipeline"
	"github.com/tomtom215/airscope/internal/report"
)

// SummaryRow is the mean raw pollutant values of one cluster.
type SummaryRow struct {
	Cluster int     `json:"cluster"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	NO2     float64 `json:"no2"`
	Ozone   float64 `json:"ozone"`
	PM25    float64 `json:"pm25"`
	CO      float64 `json:"co"`
}

// LabelRow is the cluster assignment of one filtered row. Cluster is null
// for rows excluded from clustering.
type LabelRow struct {
	ID      int     `json:"id"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Cluster *int    `json:"cluster"`
}

// ClustersResponse is the payload of /api/v1/clusters.
type ClustersResponse struct {
	Country    string          `json:"country"`
	Params     ParamsView      `json:"params"`
	Clusters   int             `json:"clusters"`
	Noise      int             `json:"noise"`
	Silhouette cluster.Score   `json:"silhouette"`
	Counts     pipeline.Counts `json:"counts"`
	Summary    []SummaryRow    `json:"summary"`
	Labels     []LabelRow      `json:"labels"`
	DurationMs int64           `json:"run_duration_ms"`
}

// PreviewRow is one row of the filtered table with its label.
type PreviewRow struct {
	ID          int      `json:"id"`
	Country     string   `json:"country"`
	City        string   `json:"city"`
	AQIValue    *float64 `json:"aqi_value"`
	AQICategory string   `json:"aqi_category"`
	NO2         *float64 `json:"no2"`
	Ozone       *float64 `json:"ozone"`
	PM25        *float64 `json:"pm25"`
	CO          *float64 `json:"co"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Cluster     *int     `json:"cluster"`
}

// PreviewResponse is the payload of /api/v1/clusters/preview.
type PreviewResponse struct {
	Country string       `json:"country"`
	Total   int          `json:"total"`
	Rows    []PreviewRow `json:"rows"`
}

// Countries returns "All" followed by every country with joined rows.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	ds, err := h.data.Get(r.Context())
	if err != nil {
		respondRunError(w, r, err)
		return
	}
	countries := pipeline.Countries(pipeline.Join(ds.Measurements, ds.Coordinates))
	WriteSuccess(w, r, append([]string{pipeline.AllCountries}, countries...))
}

// Clusters runs the selected algorithm and returns the full result.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	res, cached, ok := h.clusterResult(w, r)
	if !ok {
		return
	}

	labels := make([]LabelRow, 0, len(res.Records))
	for i := range res.Records {
		rec := &res.Records[i]
		labels = append(labels, LabelRow{
			ID:      rec.ID,
			City:    rec.City,
			Country: rec.Country,
			Lat:     rec.Lat,
			Lng:     rec.Lng,
			Cluster: labelPtr(res, rec.ID),
		})
	}

	NewResponseWriter(w, r).SuccessCached(ClustersResponse{
		Country:    res.Country,
		Params:     paramsView(res.Params),
		Clusters:   res.Clusters,
		Noise:      res.Noise,
		Silhouette: res.Score,
		Counts:     res.Counts,
		Summary:    summaryRows(res.Summary),
		Labels:     labels,
		DurationMs: res.Duration.Milliseconds(),
	}, cached)
}

// ClusterSummary returns only the per-cluster means.
func (h *Handler) ClusterSummary(w http.ResponseWriter, r *http.Request) {
	res, cached, ok := h.clusterResult(w, r)
	if !ok {
		return
	}
	NewResponseWriter(w, r).SuccessCached(summaryRows(res.Summary), cached)
}

// ClusterPreview returns the first rows of the filtered table.
func (h *Handler) ClusterPreview(w http.ResponseWriter, r *http.Request) {
	req, err := parsePreviewRequest(r, h.config)
	if !decodeOrReject(w, r, err, &req) {
		return
	}
	res, cached, err := h.run(r.Context(), &req.ClusterRequest)
	if err != nil {
		respondRunError(w, r, err)
		return
	}

	n := min(req.Limit, len(res.Records))
	rows := make([]PreviewRow, 0, n)
	for i := range res.Records[:n] {
		rec := &res.Records[i]
		rows = append(rows, PreviewRow{
			ID:          rec.ID,
			Country:     rec.Country,
			City:        rec.City,
			AQIValue:    floatPtr(rec.AQI.Float64, rec.AQI.Valid),
			AQICategory: rec.Category,
			NO2:         valuePtr(rec, dataset.NO2),
			Ozone:       valuePtr(rec, dataset.Ozone),
			PM25:        valuePtr(rec, dataset.PM25),
			CO:          valuePtr(rec, dataset.CO),
			Lat:         rec.Lat,
			Lng:         rec.Lng,
			Cluster:     labelPtr(res, rec.ID),
		})
	}
	NewResponseWriter(w, r).SuccessCached(PreviewResponse{
		Country: res.Country,
		Total:   len(res.Records),
		Rows:    rows,
	}, cached)
}

// clusterResult parses, validates and runs the request of r. On failure
// the error response has been written and ok is false.
func (h *Handler) clusterResult(w http.ResponseWriter, r *http.Request) (res *pipeline.Result, cached, ok bool) {
	req, err := parseClusterRequest(r, &h.config.Cluster)
	if !decodeOrReject(w, r, err, &req) {
		return nil, false, false
	}
	res, cached, err = h.run(r.Context(), &req)
	if err != nil {
		respondRunError(w, r, err)
		return nil, false, false
	}
	return res, cached, true
}

func summaryRows(summary []pipeline.ClusterSummary) []SummaryRow {
	rows := make([]SummaryRow, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, SummaryRow{
			Cluster: s.Label,
			Name:    report.ClusterName(s.Label),
			Count:   s.Count,
			NO2:     s.Means[dataset.NO2],
			Ozone:   s.Means[dataset.Ozone],
			PM25:    s.Means[dataset.PM25],
			CO:      s.Means[dataset.CO],
		})
	}
	return rows
}

func labelPtr(res *pipeline.Result, id int) *int {
	if l, ok := res.Label(id); ok {
		return &l
	}
	return nil
}

func valuePtr(rec *pipeline.Record, p dataset.Pollutant) *float64 {
	v := rec.Value(p)
	return floatPtr(v.Float64, v.Valid)
}

func floatPtr(v float64, valid bool) *float64 {
	if !valid {
		return nil
	}
	return &v
}
