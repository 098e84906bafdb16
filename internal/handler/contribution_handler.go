package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/termfolio/internal/heatmap"
	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/render"
)

// contributionsSource はコントリビューション取得失敗時のエラー表示に使うソース情報。
var contributionsSource = model.UpstreamSource{
	Name:           "Contribution data",
	FailureMessage: "Failed to fetch graph.",
}

// ContributionSourceInterface はコントリビューションハンドラーが必要とするデータソース。
type ContributionSourceInterface interface {
	Fetch(ctx context.Context) (model.ContributionData, error)
}

// ContributionHandler はコントリビューションヒートマップのHTTPハンドラー。
type ContributionHandler struct {
	source ContributionSourceInterface
}

// NewContributionHandler はContributionHandlerを生成する。
func NewContributionHandler(source ContributionSourceInterface) *ContributionHandler {
	return &ContributionHandler{source: source}
}

// --- レスポンス型 ---

type contributionDayResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
	Fill  string `json:"fill"`
}

type monthLabelResponse struct {
	ColumnIndex int    `json:"column_index"`
	Name        string `json:"name"`
}

// calendarResponse はヒートマップのレスポンス。
type calendarResponse struct {
	sectionHeader
	Total  int                         `json:"total"`
	Days   int                         `json:"days"`
	Weeks  [][]contributionDayResponse `json:"weeks"`
	Months []monthLabelResponse        `json:"months"`
	Legend []string                    `json:"legend"`
}

// GetContributions は直近1年分のコントリビューションをカレンダー形式で返す。
// GET /api/contributions
func (h *ContributionHandler) GetContributions(w http.ResponseWriter, r *http.Request) {
	data, err := h.source.Fetch(r.Context())
	if err != nil {
		slog.Warn("failed to fetch contributions", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, calendarResponse{
			sectionHeader: failedSection(contributionsSource, err),
			Weeks:         [][]contributionDayResponse{},
			Months:        []monthLabelResponse{},
			Legend:        heatmap.Legend(),
		})
		return
	}

	cal := heatmap.Build(data.Days, data.Totals)
	writeJSON(w, http.StatusOK, toCalendarResponse(cal))
}

// GetContributionsSVG はヒートマップをSVGとして返す。
// 取得に失敗した場合もimg要素で表示できるよう、プレースホルダーSVGを200で返す。
// GET /api/contributions.svg
func (h *ContributionHandler) GetContributionsSVG(w http.ResponseWriter, r *http.Request) {
	var (
		svg []byte
		err error
	)

	data, fetchErr := h.source.Fetch(r.Context())
	if fetchErr != nil {
		slog.Warn("failed to fetch contributions", slog.String("error", fetchErr.Error()))
		svg, err = render.RenderUnavailable()
	} else {
		svg, err = render.RenderHeatmap(heatmap.Build(data.Days, data.Totals))
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if fetchErr != nil {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

func toCalendarResponse(cal heatmap.Calendar) calendarResponse {
	resp := calendarResponse{
		sectionHeader: okOrEmpty(cal.Days),
		Total:         cal.Total,
		Days:          cal.Days,
		Weeks:         make([][]contributionDayResponse, 0, len(cal.Weeks)),
		Months:        make([]monthLabelResponse, 0, len(cal.Months)),
		Legend:        heatmap.Legend(),
	}
	for _, week := range cal.Weeks {
		col := make([]contributionDayResponse, 0, len(week))
		for _, day := range week {
			col = append(col, contributionDayResponse{
				Date:  day.Date.Format("2006-01-02"),
				Count: day.Count,
				Level: day.Level,
				Fill:  heatmap.Fill(day.Level),
			})
		}
		resp.Weeks = append(resp.Weeks, col)
	}
	for _, m := range cal.Months {
		resp.Months = append(resp.Months, monthLabelResponse{ColumnIndex: m.ColumnIndex, Name: m.Name})
	}
	return resp
}
