// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// GitHub
	GitHubUser     string `env:"GITHUB_USER,required,notEmpty"`
	GitHubToken    string `env:"GITHUB_TOKEN"`
	GitHubAPIURL   string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	GitHubRawURL   string `env:"GITHUB_RAW_URL" envDefault:"https://raw.githubusercontent.com"`
	ArticlesRepo   string `env:"ARTICLES_REPO" envDefault:"ARTICLES"`
	ArticlesBranch string `env:"ARTICLES_BRANCH" envDefault:"main"`
	RepoPageSize   int    `env:"REPO_PAGE_SIZE" envDefault:"100"`

	// Contributions
	ContributionsAPIURL string `env:"CONTRIBUTIONS_API_URL" envDefault:"https://github-contributions-api.jogruber.de"`

	// Feed
	FeedLimit   int    `env:"FEED_LIMIT" envDefault:"4"`
	ContentFile string `env:"CONTENT_FILE"`

	// Fetch
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	FetchMaxSize       int64         `env:"FETCH_MAX_SIZE" envDefault:"5242880"`
	FetchMaxConcurrent int           `env:"FETCH_MAX_CONCURRENT" envDefault:"4"`

	// Database（設定された場合のみローカル投稿をPostgreSQLから読み込む）
	DatabaseURL string `env:"DATABASE_URL"`

	// Server
	ServerPort        string `env:"SERVER_PORT" envDefault:"8080"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`
	RateLimitGeneral  int    `env:"RATE_LIMIT_GENERAL" envDefault:"120"`
	// 転送ヘッダーを信頼するプロキシのCIDR（カンマ区切り）。未設定時は転送ヘッダーを無視する。
	TrustedProxies []netip.Prefix `env:"TRUSTED_PROXIES" envSeparator:","`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合や値が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UsesDatabase はローカル投稿の保存先としてPostgreSQLを使うかどうかを返す。
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) validate() error {
	for name, raw := range map[string]string{
		"GITHUB_API_URL":        c.GitHubAPIURL,
		"GITHUB_RAW_URL":        c.GitHubRawURL,
		"CONTRIBUTIONS_API_URL": c.ContributionsAPIURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL: %q", name, raw)
		}
	}

	positives := []struct {
		name  string
		value int64
	}{
		{"FEED_LIMIT", int64(c.FeedLimit)},
		{"REPO_PAGE_SIZE", int64(c.RepoPageSize)},
		{"FETCH_MAX_SIZE", c.FetchMaxSize},
		{"FETCH_MAX_CONCURRENT", int64(c.FetchMaxConcurrent)},
		{"RATE_LIMIT_GENERAL", int64(c.RateLimitGeneral)},
		{"FETCH_TIMEOUT", int64(c.FetchTimeout)},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}
	if c.RepoPageSize > 100 {
		return fmt.Errorf("REPO_PAGE_SIZE must be at most 100")
	}

	return nil
}
