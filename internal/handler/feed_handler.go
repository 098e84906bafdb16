package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
)

// maxFeedLimit はフィードの1回の最大取得件数。
const maxFeedLimit = 20

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// Feed は最新limit件のアクティビティを新しい順で返す。失敗時も縮退した結果を返す。
	Feed(ctx context.Context, limit int) []model.ActivityItem
	// Limit は既定の表示件数を返す。
	Limit() int
}

// FeedHandler はアクティビティフィードのHTTPハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// activityItemResponse はフィード項目のレスポンス。
type activityItemResponse struct {
	Kind        string    `json:"kind"`
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// feedResponse はフィードのレスポンス。
type feedResponse struct {
	Items []activityItemResponse `json:"items"`
}

// GetFeed はアクティビティフィードを返す。
// GET /api/feed?limit=N（1〜20に丸める）
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit := h.service.Limit()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidParameterError("limit", raw))
			return
		}
		limit = clampLimit(n)
	}

	items := h.service.Feed(r.Context(), limit)

	resp := feedResponse{Items: make([]activityItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toActivityItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxFeedLimit {
		return maxFeedLimit
	}
	return n
}

func toActivityItemResponse(item model.ActivityItem) activityItemResponse {
	return activityItemResponse{
		Kind:        string(item.Kind),
		ID:          item.ID,
		Key:         item.Key(),
		Title:       item.Title,
		Timestamp:   item.Timestamp,
		Description: item.Description,
		URL:         item.URL,
		Tags:        item.Tags,
	}
}
