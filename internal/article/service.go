package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/upstream"
)

// SourceRaw は記事の生ファイル取得のソース名。
const SourceRaw = "article_raw"

// defaultMaxConcurrent は生ファイルの同時取得数の既定値。
const defaultMaxConcurrent = 4

var (
	// ErrArticleNotFound は指定IDの記事が一覧に存在しないことを表す。
	ErrArticleNotFound = errors.New("article not found")
	// ErrNoArticles は記事リポジトリにMarkdownファイルが1件もないことを表す。
	ErrNoArticles = errors.New("no articles")
)

// ContentLister は記事リポジトリのディレクトリ一覧取得インターフェース。
type ContentLister interface {
	ListContents(ctx context.Context, repo string) ([]model.ContentEntry, error)
}

// URLValidator は生ファイルURLの事前検証インターフェース。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// Service は記事リポジトリからMarkdown記事を取得して整形する。
type Service struct {
	lister        ContentLister
	repo          string
	downloader    upstream.Getter
	guard         URLValidator
	renderer      *Renderer
	logger        *slog.Logger
	maxConcurrent int
}

// NewService はServiceの新しいインスタンスを生成する。
// maxConcurrentが0以下の場合は既定値4を使用する。
func NewService(
	lister ContentLister,
	repo string,
	downloader upstream.Getter,
	guard URLValidator,
	renderer *Renderer,
	logger *slog.Logger,
	maxConcurrent int,
) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Service{
		lister:        lister,
		repo:          repo,
		downloader:    downloader,
		guard:         guard,
		renderer:      renderer,
		logger:        logger,
		maxConcurrent: maxConcurrent,
	}
}

// List はクエリに一致する記事を一覧順で返す。
// 一覧の取得に失敗した場合はエラーを返す。個々のファイルの取得失敗はログに記録してスキップする。
func (s *Service) List(ctx context.Context, query string) ([]model.Article, error) {
	start := time.Now()

	files, err := s.markdownFiles(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*model.Article, len(files))
	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

dispatch:
	for i, entry := range files {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		wg.Add(1)

		go func(i int, e model.ContentEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			a, err := s.load(ctx, e, ListPreviewLength)
			if err != nil {
				s.logger.Warn("記事の取得に失敗したためスキップします",
					slog.String("file", e.Name),
					slog.String("error", err.Error()),
				)
				return
			}
			results[i] = a
		}(i, entry)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の取得を中断しました: %w", err)
	}

	articles := make([]model.Article, 0, len(results))
	for _, a := range results {
		if a != nil {
			articles = append(articles, *a)
		}
	}
	matched := Search(articles, query)

	s.logger.Info("記事一覧を取得しました",
		slog.Int("files", len(files)),
		slog.Int("loaded", len(articles)),
		slog.Int("matched", len(matched)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return matched, nil
}

// Latest は一覧の先頭にあるMarkdownファイルを最新記事として返す。
// Markdownファイルが1件もない場合はErrNoArticlesを返す。
func (s *Service) Latest(ctx context.Context) (*model.Article, error) {
	files, err := s.markdownFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoArticles
	}
	return s.load(ctx, files[0], LatestPreviewLength)
}

// Get は指定IDの記事を返す。一覧に存在しない場合はErrArticleNotFoundを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Article, error) {
	files, err := s.markdownFiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range files {
		if e.SHA == id {
			return s.load(ctx, e, ListPreviewLength)
		}
	}
	return nil, fmt.Errorf("記事 %s: %w", id, ErrArticleNotFound)
}

func (s *Service) markdownFiles(ctx context.Context) ([]model.ContentEntry, error) {
	entries, err := s.lister.ListContents(ctx, s.repo)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗: %w", err)
	}
	return FilterMarkdown(entries), nil
}

// load は1ファイルを取得してArticleを組み立てる。
func (s *Service) load(ctx context.Context, e model.ContentEntry, previewLength int) (*model.Article, error) {
	if err := s.guard.ValidateURL(e.DownloadURL); err != nil {
		return nil, fmt.Errorf("download_urlの検証に失敗: %w: %w", model.ErrUpstreamUnavailable, err)
	}

	raw, err := s.downloader.Get(ctx, SourceRaw, e.DownloadURL, nil)
	if err != nil {
		return nil, err
	}

	title, body := ExtractTitle(e.Name, string(raw))
	rendered, err := s.renderer.Render(body)
	if err != nil {
		return nil, err
	}

	return &model.Article{
		ID:       e.SHA,
		FileName: e.Name,
		Title:    title,
		Content:  body,
		HTML:     rendered,
		Preview:  Preview(body, previewLength),
		RawURL:   e.DownloadURL,
	}, nil
}
