package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/termfolio/internal/activity"
	"github.com/hitoshi/termfolio/internal/article"
	"github.com/hitoshi/termfolio/internal/config"
	"github.com/hitoshi/termfolio/internal/content"
	"github.com/hitoshi/termfolio/internal/contributions"
	"github.com/hitoshi/termfolio/internal/database"
	"github.com/hitoshi/termfolio/internal/github"
	"github.com/hitoshi/termfolio/internal/handler"
	"github.com/hitoshi/termfolio/internal/logger"
	"github.com/hitoshi/termfolio/internal/metrics"
	"github.com/hitoshi/termfolio/internal/middleware"
	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/repository"
	"github.com/hitoshi/termfolio/internal/security"
	"github.com/hitoshi/termfolio/internal/upstream"
)

// errDatabaseRequired はDATABASE_URLが必要なコマンドで未設定だった場合のエラー。
var errDatabaseRequired = errors.New("DATABASE_URL is required for this command")

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再セットアップする
	level, ok := logger.ParseLevel(cfg.LogLevel)
	logger.SetupDefaultWithLevel(w, level)
	if !ok {
		slog.Warn("unknown LOG_LEVEL, falling back to info", slog.String("log_level", cfg.LogLevel))
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("github_user", cfg.GitHubUser),
		slog.Bool("database", cfg.UsesDatabase()),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(context.Background(), cfg)
	default:
		return runServe(cfg)
	}
}

// Server はワイヤリング済みのHTTPハンドラーと、終了時に解放するリソースを保持する。
type Server struct {
	Handler http.Handler
	closers []func()
}

// Close はServerが保持するリソースを解放する。
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// NewServer は全依存関係をワイヤリングしたServerを構築する。
// postsがnilの場合はコンテンツ文書に定義された投稿を使用する。
func NewServer(cfg *config.Config, doc *content.Document, posts activity.PostSource, reg *prometheus.Registry) (*Server, error) {
	if posts == nil {
		posts = content.NewStaticPosts(doc)
	}

	// 1. メトリクス
	collector := metrics.NewCollector(reg)

	// 2. 外部データソースへのフェッチャー
	// GitHub APIとコントリビューションAPIは設定値の固定URLにのみアクセスする。
	apiFetcher := upstream.NewFetcher(
		&http.Client{Timeout: cfg.FetchTimeout},
		slog.Default(), cfg.FetchMaxSize, collector,
	)

	// 記事本文のURLはディレクトリ一覧のレスポンスから得るため、SSRF防止クライアントを使う
	rawURL, err := url.Parse(cfg.GitHubRawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_RAW_URL: %w", err)
	}
	ssrfGuard := security.NewSSRFGuard(rawURL.Hostname())
	rawFetcher := upstream.NewFetcher(
		ssrfGuard.NewSafeClient(cfg.FetchTimeout),
		slog.Default(), cfg.FetchMaxSize, collector,
	)

	// 3. クライアントの初期化
	githubClient := github.NewClient(apiFetcher, github.Options{
		APIURL:  cfg.GitHubAPIURL,
		Token:   cfg.GitHubToken,
		User:    cfg.GitHubUser,
		PerPage: cfg.RepoPageSize,
	})
	contributionsClient := contributions.NewClient(apiFetcher, cfg.ContributionsAPIURL, cfg.GitHubUser)

	// 4. ドメインサービスの初期化
	renderer := article.NewRenderer(
		security.NewArticleSanitizer(),
		article.AssetBase(cfg.GitHubRawURL, cfg.GitHubUser, cfg.ArticlesRepo, cfg.ArticlesBranch),
	)
	articleService := article.NewService(
		githubClient, cfg.ArticlesRepo, rawFetcher, ssrfGuard, renderer,
		slog.Default(), cfg.FetchMaxConcurrent,
	)
	feedService := activity.NewService(posts, githubClient, cfg.FeedLimit, slog.Default(), collector)

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral),
		slog.Default(),
	)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:             slog.Default(),
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		RateLimiter:        rateLimiter,
		TrustedProxies:     cfg.TrustedProxies,
		MetricsHandler:     metrics.Handler(reg),
		Profile:            doc.Profile,
		FeedService:        feedService,
		RepoLister:         githubClient,
		ArticleService:     articleService,
		ContributionSource: contributionsClient,
	})

	return &Server{
		Handler: router,
		closers: []func(){rateLimiter.Stop},
	}, nil
}

// runServe はAPIサーバーモードで起動する。
// DATABASE_URLが設定されている場合はDB接続を開き、ローカル投稿をPostgreSQLから読み込む。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. コンテンツ文書の読み込み
	doc, err := content.Load(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	// 2. ローカル投稿の保存先
	var posts activity.PostSource
	if cfg.UsesDatabase() {
		db, err := openDatabase(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		posts = repository.NewPostgresPostRepo(db)
	}

	// 3. メトリクスレジストリ
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := NewServer(cfg, doc, posts, reg)
	if err != nil {
		return err
	}
	defer srv.Close()

	// 4. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if !cfg.UsesDatabase() {
		return errDatabaseRequired
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// PostUpserter は投稿の取り込み先。
type PostUpserter interface {
	Upsert(ctx context.Context, post *model.Post) (bool, error)
}

// runSeed はコンテンツ文書の投稿をデータベースへ取り込む。
func runSeed(ctx context.Context, cfg *config.Config) error {
	if !cfg.UsesDatabase() {
		return errDatabaseRequired
	}

	doc, err := content.Load(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	db, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return SeedPosts(ctx, repository.NewPostgresPostRepo(db), doc.ModelPosts())
}

// SeedPosts は投稿を1件ずつ取り込み、作成・更新件数をログに記録する。
func SeedPosts(ctx context.Context, repo PostUpserter, posts []model.Post) error {
	var created, updated int
	for i := range posts {
		inserted, err := repo.Upsert(ctx, &posts[i])
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}

	slog.Info("posts seeded",
		slog.Int("created", created),
		slog.Int("updated", updated),
	)
	return nil
}

// openDatabase はDB接続を開き、疎通を確認する。
func openDatabase(databaseURL string) (*sql.DB, error) {
	db, err := database.Open(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	return checkHealth(fmt.Sprintf("http://localhost:%s/health", port))
}

func checkHealth(url string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	u.RawQuery = ""
	return u.String()
}
