package handler

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/termfolio/internal/middleware"
	"github.com/hitoshi/termfolio/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	// TrustedProxies に含まれる接続元からのリクエストに限り転送ヘッダーを解釈する
	TrustedProxies []netip.Prefix

	// 監視
	MetricsHandler http.Handler

	// コンテンツ
	Profile            model.Profile
	FeedService        FeedServiceInterface
	RepoLister         RepoListerInterface
	ArticleService     ArticleServiceInterface
	ContributionSource ContributionSourceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	TrustedRealIP → Recovery → Logging → SecurityHeaders → CORS → RateLimit（/api/*のみ）
//
// /health と /metrics はレート制限の対象外とする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewTrustedRealIPMiddleware(deps.TrustedProxies))
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	profileHandler := NewProfileHandler(deps.Profile)
	feedHandler := NewFeedHandler(deps.FeedService)
	repoHandler := NewRepoHandler(deps.RepoLister)
	articleHandler := NewArticleHandler(deps.ArticleService)
	contributionHandler := NewContributionHandler(deps.ContributionSource)

	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Get("/profile", profileHandler.GetProfile)
		r.Get("/feed", feedHandler.GetFeed)
		r.Get("/repos", repoHandler.ListRepos)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articleHandler.ListArticles)
			r.Get("/latest", articleHandler.GetLatestArticle)
			r.Get("/{id}", articleHandler.GetArticle)
		})

		r.Get("/contributions", contributionHandler.GetContributions)
		r.Get("/contributions.svg", contributionHandler.GetContributionsSVG)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     "NOT_FOUND",
			Message:  "指定されたパスは存在しません。",
			Category: "validation",
			Action:   "URLを確認してください。",
		})
	})

	return r
}
