package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
)

// PostSource はローカル投稿の取得インターフェース。
type PostSource interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
}

// RepoLister は外部のリポジトリ一覧取得インターフェース。
type RepoLister interface {
	ListRepos(ctx context.Context) ([]model.Repo, error)
}

// FeedRecorder はフィード生成結果を記録するインターフェース。
type FeedRecorder interface {
	RecordFeedBuilt(size int, degraded bool)
}

// Service はアクティビティフィードを生成する。
// ローカル投稿と外部リポジトリ一覧を並行して取得し、両方の完了を待ってから結合する。
// 外部取得の失敗はエラーとして返さず、ローカル投稿のみのフィードへ縮退する。
type Service struct {
	posts    PostSource
	repos    RepoLister
	limit    int
	logger   *slog.Logger
	recorder FeedRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// limitが0以下の場合はDefaultLimitを使用する。recorderはnilでもよい。
func NewService(posts PostSource, repos RepoLister, limit int, logger *slog.Logger, recorder FeedRecorder) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		posts:    posts,
		repos:    repos,
		limit:    limit,
		logger:   logger,
		recorder: recorder,
	}
}

// Limit は既定の表示件数を返す。
func (s *Service) Limit() int {
	return s.limit
}

// Feed は最新limit件のアクティビティを新しい順で返す。
// limitが0以下の場合は既定の表示件数を使用する。
func (s *Service) Feed(ctx context.Context, limit int) []model.ActivityItem {
	if limit <= 0 {
		limit = s.limit
	}
	start := time.Now()

	var (
		wg       sync.WaitGroup
		posts    []model.Post
		postsErr error
		repos    []model.Repo
		reposErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, postsErr = s.posts.ListPosts(ctx)
	}()
	go func() {
		defer wg.Done()
		repos, reposErr = s.repos.ListRepos(ctx)
	}()
	wg.Wait()

	degraded := false
	if postsErr != nil {
		degraded = true
		posts = nil
		s.logger.Error("ローカル投稿の読み込みに失敗しました",
			slog.String("error", postsErr.Error()),
		)
	}
	if reposErr != nil {
		degraded = true
		repos = nil
		s.logger.Warn("リポジトリ一覧の取得に失敗したため、ローカル投稿のみでフィードを生成します",
			slog.String("error", reposErr.Error()),
		)
	}

	articles := make([]model.ActivityItem, 0, len(posts))
	for _, p := range posts {
		item, err := FromPost(p)
		if err != nil {
			s.logger.Warn("日付を解釈できない投稿をスキップします",
				slog.String("post_id", p.ID),
				slog.String("date", p.Date),
				slog.String("error", err.Error()),
			)
			continue
		}
		articles = append(articles, item)
	}

	repositories := make([]model.ActivityItem, 0, len(repos))
	for _, r := range repos {
		if r.UpdatedAt.IsZero() {
			s.logger.Warn("更新日時のないリポジトリをスキップします",
				slog.String("repo", r.Name),
			)
			continue
		}
		repositories = append(repositories, FromRepo(r))
	}

	items := Merge(articles, repositories, limit)

	if s.recorder != nil {
		s.recorder.RecordFeedBuilt(len(items), degraded)
	}

	s.logger.Info("アクティビティフィードを生成しました",
		slog.Int("articles", len(articles)),
		slog.Int("repositories", len(repositories)),
		slog.Int("items", len(items)),
		slog.Bool("degraded", degraded),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return items
}
