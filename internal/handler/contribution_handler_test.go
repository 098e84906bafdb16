package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/render"
)

func sampleContributions(n int) model.ContributionData {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	days := make([]model.ContributionDay, n)
	for i := range days {
		days[i] = model.ContributionDay{Date: start.AddDate(0, 0, i), Count: i, Level: i % 5}
	}
	return model.ContributionData{Totals: map[string]int{"2024": 120, "2023": 30}, Days: days}
}

func TestGetContributions_OK(t *testing.T) {
	src := &mockContributionSource{
		fetchFn: func(ctx context.Context) (model.ContributionData, error) {
			return sampleContributions(10), nil
		},
	}

	w := httptest.NewRecorder()
	NewContributionHandler(src).GetContributions(w, httptest.NewRequest(http.MethodGet, "/api/contributions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body calendarResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.State != sectionOK {
		t.Errorf("state = %q, want ok", body.State)
	}
	if body.Total != 150 || body.Days != 10 {
		t.Errorf("total = %d, days = %d", body.Total, body.Days)
	}
	if len(body.Weeks) != 2 || len(body.Weeks[0]) != 7 || len(body.Weeks[1]) != 3 {
		t.Errorf("週列の構成が不正: %d列", len(body.Weeks))
	}
	if body.Weeks[0][0].Date != "2024-03-01" || body.Weeks[0][4].Fill != "#00ff41" {
		t.Errorf("weeks[0] = %+v", body.Weeks[0])
	}
	if len(body.Months) != 1 || body.Months[0].Name != "Mar" || body.Months[0].ColumnIndex != 0 {
		t.Errorf("months = %+v", body.Months)
	}
	if len(body.Legend) != 5 {
		t.Errorf("legend = %v", body.Legend)
	}
}

func TestGetContributions_NoDaysIsEmpty(t *testing.T) {
	src := &mockContributionSource{
		fetchFn: func(ctx context.Context) (model.ContributionData, error) {
			return model.ContributionData{Totals: map[string]int{"2024": 7}}, nil
		},
	}

	w := httptest.NewRecorder()
	NewContributionHandler(src).GetContributions(w, httptest.NewRequest(http.MethodGet, "/api/contributions", nil))

	var body calendarResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.State != sectionEmpty || body.Total != 7 || len(body.Weeks) != 0 || len(body.Months) != 0 {
		t.Errorf("body = %+v", body)
	}
}

func TestGetContributions_Unavailable(t *testing.T) {
	src := &mockContributionSource{
		fetchFn: func(ctx context.Context) (model.ContributionData, error) {
			return model.ContributionData{}, fmt.Errorf("%w: %w", model.ErrContributionsUnavailable, model.ErrUpstreamUnavailable)
		},
	}

	w := httptest.NewRecorder()
	NewContributionHandler(src).GetContributions(w, httptest.NewRequest(http.MethodGet, "/api/contributions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body calendarResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.State != sectionError || body.Error == nil || body.Error.Code != model.ErrCodeUpstreamFailed {
		t.Fatalf("body = %+v", body)
	}
	if body.Error.Message != "Failed to fetch graph." {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestGetContributionsSVG(t *testing.T) {
	src := &mockContributionSource{
		fetchFn: func(ctx context.Context) (model.ContributionData, error) {
			return sampleContributions(14), nil
		},
	}

	w := httptest.NewRecorder()
	NewContributionHandler(src).GetContributionsSVG(w, httptest.NewRequest(http.MethodGet, "/api/contributions.svg", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Errorf("SVGが返されていない: %.40s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), render.UnavailableMessage) {
		t.Error("成功時にプレースホルダーが返された")
	}
}

func TestGetContributionsSVG_Placeholder(t *testing.T) {
	src := &mockContributionSource{
		fetchFn: func(ctx context.Context) (model.ContributionData, error) {
			return model.ContributionData{}, model.ErrContributionsUnavailable
		},
	}

	w := httptest.NewRecorder()
	NewContributionHandler(src).GetContributionsSVG(w, httptest.NewRequest(http.MethodGet, "/api/contributions.svg", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), render.UnavailableMessage) {
		t.Error("プレースホルダーSVGが返されていない")
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}
