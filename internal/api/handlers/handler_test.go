package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ytbuzz/internal/models"
	"ytbuzz/internal/provider"
)

type mockService struct {
	result *models.SearchResult
	err    error

	gotKeyword string
	gotFilters *models.SearchFilters
}

func (m *mockService) SearchBuzzVideos(_ context.Context, keyword string, filters *models.SearchFilters) (*models.SearchResult, error) {
	m.gotKeyword = keyword
	m.gotFilters = filters
	return m.result, m.err
}

type mockLogger struct{}

func (mockLogger) Errorf(string, ...any) {}
func (mockLogger) Warnf(string, ...any)  {}
func (mockLogger) Infof(string, ...any)  {}
func (mockLogger) Info(...any)           {}

func doSearch(t *testing.T, svc Service, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(svc, mockLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Search(rec, req)
	return rec
}

func TestSearch_OK(t *testing.T) {
	svc := &mockService{
		result: &models.SearchResult{
			Keyword: "golang",
			Videos: []models.Video{
				{VideoID: "v1", ImpactRatio: 5.0},
			},
		},
	}

	rec := doSearch(t, svc, `{"keyword":"golang","filters":{"periodDays":7}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotKeyword != "golang" {
		t.Errorf("expected keyword golang, got %q", svc.gotKeyword)
	}
	if svc.gotFilters == nil || svc.gotFilters.PeriodDays == nil || *svc.gotFilters.PeriodDays != 7 {
		t.Errorf("filters not passed through: %+v", svc.gotFilters)
	}

	var result models.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Videos) != 1 || result.Videos[0].VideoID != "v1" {
		t.Errorf("unexpected body: %+v", result)
	}
}

func TestSearch_InvalidBody(t *testing.T) {
	rec := doSearch(t, &mockService{}, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearch_EmptyKeyword(t *testing.T) {
	rec := doSearch(t, &mockService{}, `{"keyword":""}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearch_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"quota", provider.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"auth", provider.ErrAuthFailed, http.StatusUnauthorized},
		{"no keys", models.ErrNoAPIKeys, http.StatusServiceUnavailable},
		{"upstream", &provider.UpstreamError{StatusCode: 404, Message: "not found"}, http.StatusBadGateway},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doSearch(t, &mockService{err: tt.err}, `{"keyword":"golang"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Errorf("expected error message in body")
			}
		})
	}
}
