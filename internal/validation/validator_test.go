// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package validation

import (
	"strings"
	"testing"
)

type testRequest struct {
	Algorithm string  `query:"algorithm" validate:"algorithm"`
	K         int     `query:"k" validate:"min=2,max=10"`
	Eps       float64 `query:"eps" validate:"gte=0.1,lte=5"`
	Country   string  `query:"country" validate:"max=100"`
	Internal  int     `query:"-" validate:"min=0"`
}

func validRequest() testRequest {
	return testRequest{Algorithm: "kmeans", K: 4, Eps: 1.2, Country: "India"}
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStructValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*testRequest)
	}{
		{"defaults", func(*testRequest) {}},
		{"dbscan", func(r *testRequest) { r.Algorithm = "dbscan" }},
		{"alias", func(r *testRequest) { r.Algorithm = "Agglomerative" }},
		{"bounds", func(r *testRequest) { r.K, r.Eps = 10, 0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.mutate(&req)
			if err := ValidateStruct(&req); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStructInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*testRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"k too small", func(r *testRequest) { r.K = 1 }, "k", "min", "k must be at least 2"},
		{"k too large", func(r *testRequest) { r.K = 11 }, "k", "max", "k must be at most 10"},
		{"eps too small", func(r *testRequest) { r.Eps = 0.05 }, "eps", "gte", "eps must be greater than or equal to 0.1"},
		{"eps too large", func(r *testRequest) { r.Eps = 6 }, "eps", "lte", "eps must be less than or equal to 5"},
		{"unknown algorithm", func(r *testRequest) { r.Algorithm = "spectral" }, "algorithm", "algorithm", "algorithm must be one of"},
		{"long country", func(r *testRequest) { r.Country = strings.Repeat("x", 101) }, "country", "max", "country must be at most 100 characters"},
		{"unnamed field", func(r *testRequest) { r.Internal = -1 }, "Internal", "min", "Internal must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.mutate(&req)

			err := ValidateStruct(&req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(err.Errors()), err)
			}
			fe := err.Errors()[0]
			if fe.Field() != tt.wantField || fe.Tag() != tt.wantTag {
				t.Errorf("got field %q tag %q, want %q %q", fe.Field(), fe.Tag(), tt.wantField, tt.wantTag)
			}
			if !strings.HasPrefix(fe.Error(), tt.wantMsg) {
				t.Errorf("message %q does not start with %q", fe.Error(), tt.wantMsg)
			}

			apiErr := err.ToAPIError()
			if apiErr.Code != ErrorCode {
				t.Errorf("expected code %s, got %s", ErrorCode, apiErr.Code)
			}
			if apiErr.Details["field"] != tt.wantField {
				t.Errorf("expected details field %q, got %v", tt.wantField, apiErr.Details["field"])
			}
		})
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.K = 20
	req.Eps = 0
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field details, got %#v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "k must be at most 10") || !strings.Contains(apiErr.Message, "eps must be") {
		t.Errorf("unexpected combined message %q", apiErr.Message)
	}
	if err.Error() != apiErr.Message {
		t.Errorf("Error() = %q, want %q", err.Error(), apiErr.Message)
	}
}

func TestEmptyRequestValidationError(t *testing.T) {
	t.Parallel()

	err := &RequestValidationError{}
	if err.Error() != "validation failed" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.ToAPIError().Code != ErrorCode {
		t.Error("expected validation code")
	}
}
