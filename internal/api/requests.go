// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/airscope/internal/cache"
	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/config"
	"github.com/tomtom215/airscope/internal/pipeline"
	"github.com/tomtom215/airscope/internal/validation"
)

// ClusterRequest holds the query parameters shared by every clustering
// endpoint. Bounds match the dashboard sliders.
type ClusterRequest struct {
	Country    string  `query:"country" validate:"max=100"`
	Algorithm  string  `query:"algorithm" validate:"algorithm"`
	K          int     `query:"k" validate:"min=2,max=10"`
	Eps        float64 `query:"eps" validate:"gte=0.1,lte=5"`
	MinSamples int     `query:"min_samples" validate:"min=2,max=20"`

	// K-Means tuning comes from configuration, not the query.
	seed    int64
	nInit   int
	maxIter int
}

// PreviewRequest adds the row limit of the preview endpoint.
type PreviewRequest struct {
	ClusterRequest
	Limit int `query:"limit" validate:"min=1,max=1000"`
}

// paramError reports a query parameter that is not a number.
type paramError struct {
	field string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be a number, got %q", e.field, e.value)
}

// parseClusterRequest reads the clustering parameters from r, filling
// absent ones from the configured defaults.
func parseClusterRequest(r *http.Request, cfg *config.ClusterConfig) (ClusterRequest, error) {
	q := r.URL.Query()
	req := ClusterRequest{
		Country:    strings.TrimSpace(q.Get("country")),
		Algorithm:  strings.TrimSpace(q.Get("algorithm")),
		K:          cfg.DefaultK,
		Eps:        cfg.DefaultEps,
		MinSamples: cfg.DefaultMinSamples,
		seed:       cfg.KMeansSeed,
		nInit:      cfg.KMeansNInit,
		maxIter:    cfg.KMeansMaxIter,
	}
	if req.Country == "" {
		req.Country = pipeline.AllCountries
	}
	if req.Algorithm == "" {
		req.Algorithm = cfg.DefaultAlgorithm
	}

	var err error
	if req.K, err = intParam(q.Get("k"), "k", req.K); err != nil {
		return req, err
	}
	if req.MinSamples, err = intParam(q.Get("min_samples"), "min_samples", req.MinSamples); err != nil {
		return req, err
	}
	if req.Eps, err = floatParam(q.Get("eps"), "eps", req.Eps); err != nil {
		return req, err
	}
	return req, nil
}

func parsePreviewRequest(r *http.Request, cfg *config.Config) (PreviewRequest, error) {
	cr, err := parseClusterRequest(r, &cfg.Cluster)
	if err != nil {
		return PreviewRequest{ClusterRequest: cr}, err
	}
	limit, err := intParam(r.URL.Query().Get("limit"), "limit", cfg.Data.PreviewLimit)
	return PreviewRequest{ClusterRequest: cr, Limit: limit}, err
}

func intParam(raw, field string, def int) (int, error) {
	if raw = strings.TrimSpace(raw); raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, &paramError{field: field, value: raw}
	}
	return v, nil
}

func floatParam(raw, field string, def float64) (float64, error) {
	if raw = strings.TrimSpace(raw); raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, &paramError{field: field, value: raw}
	}
	return v, nil
}

// Kind returns the selected algorithm. Call after validation.
func (req *ClusterRequest) Kind() cluster.Kind {
	k, _ := cluster.ParseKind(req.Algorithm)
	return k
}

// Params builds the algorithm configuration of the request.
func (req *ClusterRequest) Params() cluster.Params {
	switch req.Kind() {
	case cluster.KindDBSCAN:
		return cluster.DBSCAN(req.Eps, req.MinSamples)
	case cluster.KindHierarchical:
		return cluster.Hierarchical(req.K)
	default:
		p := cluster.KMeans(req.K)
		p.Seed = req.seed
		if req.nInit > 0 {
			p.NInit = req.nInit
		}
		if req.maxIter > 0 {
			p.MaxIter = req.maxIter
		}
		return p
	}
}

// cacheKey identifies the result of req. Parameters the selected
// algorithm ignores are left out so they do not split the cache.
func (req *ClusterRequest) cacheKey() string {
	key := struct {
		Country    string  `json:"country"`
		Algorithm  string  `json:"algorithm"`
		K          int     `json:"k,omitempty"`
		Eps        float64 `json:"eps,omitempty"`
		MinSamples int     `json:"min_samples,omitempty"`
		Seed       int64   `json:"seed,omitempty"`
	}{Country: req.Country, Algorithm: req.Kind().String()}

	switch req.Kind() {
	case cluster.KindDBSCAN:
		key.Eps, key.MinSamples = req.Eps, req.MinSamples
	case cluster.KindHierarchical:
		key.K = req.K
	default:
		key.K, key.Seed = req.K, req.seed
	}
	return cache.GenerateKey("clusters", key)
}

// ParamsView is the JSON form of the algorithm parameters actually used.
type ParamsView struct {
	Algorithm  string   `json:"algorithm"`
	K          *int     `json:"k,omitempty"`
	Eps        *float64 `json:"eps,omitempty"`
	MinSamples *int     `json:"min_samples,omitempty"`
}

func paramsView(p cluster.Params) ParamsView {
	v := ParamsView{Algorithm: p.Kind().String()}
	switch tp := p.(type) {
	case cluster.KMeansParams:
		v.K = &tp.K
	case cluster.DBSCANParams:
		v.Eps, v.MinSamples = &tp.Eps, &tp.MinSamples
	case cluster.HierarchicalParams:
		v.K = &tp.K
	}
	return v
}

// decodeOrReject parses and validates a request. On failure it writes the
// 400 response and returns false.
func decodeOrReject(w http.ResponseWriter, r *http.Request, parseErr error, req any) bool {
	rw := NewResponseWriter(w, r)
	if parseErr != nil {
		if pe, ok := parseErr.(*paramError); ok {
			rw.ValidationError(pe.Error(), map[string]any{"field": pe.field, "value": pe.value})
			return false
		}
		rw.BadRequest(parseErr.Error())
		return false
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
