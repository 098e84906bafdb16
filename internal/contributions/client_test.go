package contributions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/upstream"
)

func newTestClient(srv *httptest.Server) *Client {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewClient(upstream.NewFetcher(srv.Client(), logger, 0, nil), srv.URL, "octo")
}

func TestFetch_ParsesContributions(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"total": {"2023": 412, "2024": 57},
			"contributions": [
				{"date": "2024-01-01", "count": 0, "level": 0},
				{"date": "2024-01-02", "count": 9, "level": 3}
			]
		}`))
	}))
	defer srv.Close()

	data, err := newTestClient(srv).Fetch(context.Background())
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if gotPath != "/v4/octo" || gotQuery != "y=last" {
		t.Errorf("request = %s?%s", gotPath, gotQuery)
	}
	if data.Totals["2023"] != 412 || data.Totals["2024"] != 57 {
		t.Errorf("Totals = %v", data.Totals)
	}
	if len(data.Days) != 2 {
		t.Fatalf("日数 = %d, want 2", len(data.Days))
	}
	want := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !data.Days[1].Date.Equal(want) || data.Days[1].Count != 9 || data.Days[1].Level != 3 {
		t.Errorf("Days[1] = %+v", data.Days[1])
	}
}

func TestFetch_EmptyContributionsIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": {"2024": 0}, "contributions": []}`))
	}))
	defer srv.Close()

	data, err := newTestClient(srv).Fetch(context.Background())
	if err != nil {
		t.Fatalf("空配列でエラーが返された: %v", err)
	}
	if len(data.Days) != 0 {
		t.Errorf("日数 = %d, want 0", len(data.Days))
	}
}

func TestFetch_MissingContributionsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": {"2024": 3}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background())
	if !errors.Is(err, model.ErrContributionsUnavailable) {
		t.Errorf("err = %v, want ErrContributionsUnavailable", err)
	}
	if !errors.Is(err, model.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background())
	if !errors.Is(err, model.ErrContributionsUnavailable) {
		t.Errorf("err = %v, want ErrContributionsUnavailable", err)
	}
	if !errors.Is(err, model.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestFetch_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background())
	if !errors.Is(err, model.ErrContributionsUnavailable) {
		t.Errorf("err = %v, want ErrContributionsUnavailable", err)
	}
}

func TestDecode_InvalidDate(t *testing.T) {
	_, err := Decode([]byte(`{"total": {}, "contributions": [{"date": "01/02/2024", "count": 1, "level": 1}]}`))
	if !errors.Is(err, model.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestDecode_MissingTotalYieldsEmptyMap(t *testing.T) {
	data, err := Decode([]byte(`{"contributions": []}`))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if data.Totals == nil {
		t.Error("Totalsがnil")
	}
}
