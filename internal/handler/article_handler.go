package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/termfolio/internal/article"
	"github.com/hitoshi/termfolio/internal/model"
)

// articlesSource は記事リポジトリ取得失敗時のエラー表示に使うソース情報。
var articlesSource = model.UpstreamSource{
	Name:           "Articles repository",
	FailureMessage: "Failed to fetch article list.",
}

// ArticleServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	// List は記事一覧を返す。queryが空でない場合はタイトル・ファイル名・本文で絞り込む。
	List(ctx context.Context, query string) ([]model.Article, error)
	// Latest は最新記事を返す。記事がない場合はarticle.ErrNoArticlesを返す。
	Latest(ctx context.Context) (*model.Article, error)
	// Get は指定IDの記事を返す。存在しない場合はarticle.ErrArticleNotFoundを返す。
	Get(ctx context.Context, id string) (*model.Article, error)
}

// ArticleHandler は記事のHTTPハンドラー。
type ArticleHandler struct {
	service ArticleServiceInterface
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(service ArticleServiceInterface) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// --- レスポンス型 ---

// articleSummaryResponse は記事一覧・最新記事のサマリーレスポンス。
type articleSummaryResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
	RawURL   string `json:"raw_url"`
}

// articleListResponse は記事一覧のレスポンス。
type articleListResponse struct {
	sectionHeader
	Query    string                   `json:"query,omitempty"`
	Articles []articleSummaryResponse `json:"articles"`
}

// articleDetailResponse は記事詳細のレスポンス。
type articleDetailResponse struct {
	articleSummaryResponse
	Content string `json:"content"` // Markdown本文
	HTML    string `json:"html"`    // サニタイズ済みHTML
}

// ListArticles は記事一覧を返す。
// GET /api/articles?q=keyword
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	articles, err := h.service.List(r.Context(), query)
	if err != nil {
		slog.Warn("failed to list articles", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, articleListResponse{
			sectionHeader: failedSection(articlesSource, err),
			Query:         query,
			Articles:      []articleSummaryResponse{},
		})
		return
	}

	resp := articleListResponse{
		sectionHeader: okOrEmpty(len(articles)),
		Query:         query,
		Articles:      make([]articleSummaryResponse, 0, len(articles)),
	}
	for _, a := range articles {
		resp.Articles = append(resp.Articles, toArticleSummary(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetLatestArticle は最新記事のプレビューを返す。記事がない場合は204を返す。
// GET /api/articles/latest
func (h *ArticleHandler) GetLatestArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Latest(r.Context())
	if err != nil {
		if errors.Is(err, article.ErrNoArticles) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		slog.Warn("failed to load latest article", slog.String("error", err.Error()))
		handleServiceError(w, model.NewUpstreamError(articlesSource, err))
		return
	}

	writeJSON(w, http.StatusOK, toArticleSummary(*a))
}

// GetArticle は記事詳細を返す。
// GET /api/articles/{id}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, article.ErrArticleNotFound) {
			handleServiceError(w, model.NewArticleNotFoundError(id))
			return
		}
		slog.Warn("failed to load article",
			slog.String("article_id", id),
			slog.String("error", err.Error()),
		)
		handleServiceError(w, model.NewUpstreamError(articlesSource, err))
		return
	}

	writeJSON(w, http.StatusOK, articleDetailResponse{
		articleSummaryResponse: toArticleSummary(*a),
		Content:                a.Content,
		HTML:                   a.HTML,
	})
}

func toArticleSummary(a model.Article) articleSummaryResponse {
	return articleSummaryResponse{
		ID:       a.ID,
		FileName: a.FileName,
		Title:    a.Title,
		Preview:  a.Preview,
		RawURL:   a.RawURL,
	}
}
