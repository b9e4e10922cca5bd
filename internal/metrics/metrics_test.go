// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/clusters", "200"))

	RecordAPIRequest("GET", "/api/v1/clusters", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/clusters", "200"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("expected gauge %v after increment, got %v", before+1, got)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("expected gauge %v after decrement, got %v", before, got)
	}
}

func TestRecordClusterRun(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		available bool
		err       error
	}{
		{"success with score", "kmeans", true, nil},
		{"success without score", "dbscan", false, nil},
		{"failure", "hierarchical", false, errors.New("too few samples")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := "success"
			if tt.err != nil {
				outcome = "error"
			}
			before := testutil.ToFloat64(ClusterRunsTotal.WithLabelValues(tt.algorithm, outcome))

			RecordClusterRun(tt.algorithm, 20*time.Millisecond, 120, 4, 0.42, tt.available, tt.err)

			if got := testutil.ToFloat64(ClusterRunsTotal.WithLabelValues(tt.algorithm, outcome)); got != before+1 {
				t.Errorf("expected %s counter to increase by 1, got %v -> %v", outcome, before, got)
			}
			if tt.err == nil {
				if got := testutil.ToFloat64(ClusterCount.WithLabelValues(tt.algorithm)); got != 4 {
					t.Errorf("expected cluster count 4, got %v", got)
				}
			}
			if tt.available {
				if got := testutil.ToFloat64(ClusterSilhouette.WithLabelValues(tt.algorithm)); got != 0.42 {
					t.Errorf("expected silhouette 0.42, got %v", got)
				}
			}
		})
	}
}

func TestRecordExport(t *testing.T) {
	before := testutil.ToFloat64(ExportsTotal.WithLabelValues("xlsx"))
	RecordExport("xlsx")
	if got := testutil.ToFloat64(ExportsTotal.WithLabelValues("xlsx")); got != before+1 {
		t.Errorf("expected export counter to increase by 1, got %v -> %v", before, got)
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	if got := StatusLabel(422); got != "422" {
		t.Errorf("expected '422', got %q", got)
	}
}
