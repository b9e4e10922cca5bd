// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/logging"
)

func TestParseClusterRequestDefaults(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	req, err := parseClusterRequest(httptest.NewRequest("GET", "/api/v1/clusters", nil), &cfg.Cluster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Country != "All" || req.Algorithm != "kmeans" || req.K != 2 || req.Eps != 1.2 || req.MinSamples != 2 {
		t.Errorf("unexpected defaults: %+v", req)
	}
	p, ok := req.Params().(cluster.KMeansParams)
	if !ok {
		t.Fatalf("expected KMeansParams, got %T", req.Params())
	}
	if p.Seed != 42 || p.NInit != 10 || p.MaxIter != 300 {
		t.Errorf("expected configured K-Means tuning, got %+v", p)
	}
}

func TestParseClusterRequestValues(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	target := "/api/v1/clusters?country=%20India%20&algorithm=DBSCAN&eps=0.5&min_samples=7&k=3"
	req, err := parseClusterRequest(httptest.NewRequest("GET", target, nil), &cfg.Cluster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Country != "India" || req.Kind() != cluster.KindDBSCAN {
		t.Errorf("unexpected request: %+v", req)
	}
	if p := req.Params(); p != cluster.DBSCAN(0.5, 7) {
		t.Errorf("Params() = %+v", p)
	}
}

func TestParseClusterRequestBadNumber(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	for _, q := range []string{"k=two", "eps=wide", "min_samples=1.5"} {
		_, err := parseClusterRequest(httptest.NewRequest("GET", "/?"+q, nil), &cfg.Cluster)
		var pe *paramError
		if !errors.As(err, &pe) {
			t.Errorf("%s: expected paramError, got %v", q, err)
		}
	}
}

func TestCacheKeyIgnoresUnusedParams(t *testing.T) {
	t.Parallel()

	base := ClusterRequest{Country: "All", Algorithm: "kmeans", K: 4, Eps: 1.2, MinSamples: 5, seed: 42}

	other := base
	other.Eps, other.MinSamples = 3, 9
	if base.cacheKey() != other.cacheKey() {
		t.Error("eps and min_samples must not affect the K-Means key")
	}

	alias := base
	alias.Algorithm = "k-means"
	if base.cacheKey() != alias.cacheKey() {
		t.Error("algorithm aliases must share a key")
	}

	for _, changed := range []ClusterRequest{
		{Country: "India", Algorithm: "kmeans", K: 4, seed: 42},
		{Country: "All", Algorithm: "kmeans", K: 5, seed: 42},
		{Country: "All", Algorithm: "kmeans", K: 4, seed: 7},
		{Country: "All", Algorithm: "hierarchical", K: 4},
	} {
		if changed.cacheKey() == base.cacheKey() {
			t.Errorf("expected a distinct key for %+v", changed)
		}
	}

	db1 := ClusterRequest{Country: "All", Algorithm: "dbscan", K: 4, Eps: 1.2, MinSamples: 5}
	db2 := db1
	db2.K = 9
	if db1.cacheKey() != db2.cacheKey() {
		t.Error("k must not affect the DBSCAN key")
	}
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{dataset.ErrLoad, 503, ErrCodeServiceUnavailable},
		{cluster.ErrNoData, 422, ErrCodeNoData},
		{cluster.ErrTooFewSamples, 422, ErrCodeTooFewSamples},
		{cluster.ErrInvalidParameter, 400, ErrCodeInvalidParameter},
		{cluster.ErrUnknownAlgorithm, 400, ErrCodeInvalidParameter},
		{context.DeadlineExceeded, 504, ErrCodeTimeout},
		{context.Canceled, StatusClientClosedRequest, ErrCodeClientClosed},
		{fmt.Errorf("%w: %w", dataset.ErrLoad, context.Canceled), StatusClientClosedRequest, ErrCodeClientClosed},
		{fmt.Errorf("kmeans: %w", context.Canceled), StatusClientClosedRequest, ErrCodeClientClosed},
		{errors.New("boom"), 500, ErrCodeInternalError},
	}
	for _, tt := range tests {
		status, code := errorStatus(tt.err)
		if status != tt.status || code != tt.code {
			t.Errorf("errorStatus(%v) = %d %s, want %d %s", tt.err, status, code, tt.status, tt.code)
		}
	}
}

func TestParamsView(t *testing.T) {
	t.Parallel()

	v := paramsView(cluster.DBSCAN(0.7, 4))
	if v.Algorithm != "dbscan" || v.K != nil || *v.Eps != 0.7 || *v.MinSamples != 4 {
		t.Errorf("unexpected view: %+v", v)
	}
	v = paramsView(cluster.Hierarchical(3))
	if v.Algorithm != "hierarchical" || *v.K != 3 || v.Eps != nil {
		t.Errorf("unexpected view: %+v", v)
	}
}

func TestRespondRunErrorClientCanceled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.ContextWithLogger(context.Background(), logging.NewTestLogger(&buf))
	r := httptest.NewRequest("GET", "/api/v1/clusters", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	respondRunError(w, r, fmt.Errorf("run: %w", context.Canceled))

	if w.Code != StatusClientClosedRequest {
		t.Errorf("expected status %d, got %d", StatusClientClosedRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), ErrCodeClientClosed) {
		t.Errorf("expected code %s in body, got %s", ErrCodeClientClosed, w.Body.String())
	}
	if strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("client cancellation must not log at error level: %s", buf.String())
	}
}
