// Package github はGitHub REST APIのクライアントを提供する。
// リポジトリ一覧と記事リポジトリのディレクトリ一覧を取得する。
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/upstream"
)

const (
	// DefaultAPIURL はGitHub REST APIのベースURL。
	DefaultAPIURL = "https://api.github.com"
	// DefaultPerPage はリポジトリ一覧の1ページあたりの件数。
	DefaultPerPage = 100

	// SourceRepos はリポジトリ一覧取得のソース名。
	SourceRepos = "github_repos"
	// SourceContents はディレクトリ一覧取得のソース名。
	SourceContents = "github_contents"

	apiVersion = "2022-11-28"
)

// Options はClientの設定。
type Options struct {
	APIURL  string
	Token   string // 空の場合は未認証でリクエストする
	User    string
	PerPage int
}

// Client はGitHub REST APIのクライアント。
type Client struct {
	getter  upstream.Getter
	apiURL  string
	token   string
	user    string
	perPage int
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(getter upstream.Getter, opts Options) *Client {
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Client{
		getter:  getter,
		apiURL:  apiURL,
		token:   opts.Token,
		user:    opts.User,
		perPage: perPage,
	}
}

// User は対象ユーザー名を返す。
func (c *Client) User() string {
	return c.user
}

type repoResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type contentResponse struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	SHA         string  `json:"sha"`
	Type        string  `json:"type"`
	DownloadURL *string `json:"download_url"`
}

// ListRepos は対象ユーザーの公開リポジトリを更新日時の新しい順に1ページ分取得する。
func (c *Client) ListRepos(ctx context.Context) ([]model.Repo, error) {
	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", strconv.Itoa(c.perPage))
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.apiURL, url.PathEscape(c.user), q.Encode())

	body, err := c.getter.Get(ctx, SourceRepos, endpoint, c.headers())
	if err != nil {
		return nil, fmt.Errorf("リポジトリ一覧の取得に失敗: %w", err)
	}

	var raw []repoResponse
	if err := upstream.DecodeJSON(SourceRepos, body, &raw); err != nil {
		return nil, err
	}

	repos := make([]model.Repo, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, model.Repo{
			ID:              r.ID,
			Name:            r.Name,
			Description:     deref(r.Description),
			HTMLURL:         r.HTMLURL,
			Language:        deref(r.Language),
			StargazersCount: r.StargazersCount,
			ForksCount:      r.ForksCount,
			UpdatedAt:       r.UpdatedAt.UTC(),
		})
	}
	return repos, nil
}

// ListContents は対象ユーザーのリポジトリrepoのルートディレクトリ一覧を取得する。
func (c *Client) ListContents(ctx context.Context, repo string) ([]model.ContentEntry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/", c.apiURL, url.PathEscape(c.user), url.PathEscape(repo))

	body, err := c.getter.Get(ctx, SourceContents, endpoint, c.headers())
	if err != nil {
		return nil, fmt.Errorf("ディレクトリ一覧の取得に失敗: %w", err)
	}

	var raw []contentResponse
	if err := upstream.DecodeJSON(SourceContents, body, &raw); err != nil {
		return nil, err
	}

	entries := make([]model.ContentEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, model.ContentEntry{
			Name:        e.Name,
			Path:        e.Path,
			SHA:         e.SHA,
			Type:        e.Type,
			DownloadURL: deref(e.DownloadURL),
		})
	}
	return entries, nil
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	h.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
