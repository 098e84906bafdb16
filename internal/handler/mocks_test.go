package handler

import (
	"context"

	"github.com/hitoshi/termfolio/internal/model"
)

// --- モック定義 ---

// mockFeedService はFeedServiceInterfaceのモック実装。
type mockFeedService struct {
	feedFn    func(ctx context.Context, limit int) []model.ActivityItem
	limit     int
	lastLimit int
}

func (m *mockFeedService) Feed(ctx context.Context, limit int) []model.ActivityItem {
	m.lastLimit = limit
	if m.feedFn != nil {
		return m.feedFn(ctx, limit)
	}
	return nil
}

func (m *mockFeedService) Limit() int {
	return m.limit
}

// mockRepoLister はRepoListerInterfaceのモック実装。
type mockRepoLister struct {
	listReposFn func(ctx context.Context) ([]model.Repo, error)
}

func (m *mockRepoLister) ListRepos(ctx context.Context) ([]model.Repo, error) {
	if m.listReposFn != nil {
		return m.listReposFn(ctx)
	}
	return nil, nil
}

// mockArticleService はArticleServiceInterfaceのモック実装。
type mockArticleService struct {
	listFn   func(ctx context.Context, query string) ([]model.Article, error)
	latestFn func(ctx context.Context) (*model.Article, error)
	getFn    func(ctx context.Context, id string) (*model.Article, error)
}

func (m *mockArticleService) List(ctx context.Context, query string) ([]model.Article, error) {
	if m.listFn != nil {
		return m.listFn(ctx, query)
	}
	return nil, nil
}

func (m *mockArticleService) Latest(ctx context.Context) (*model.Article, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

func (m *mockArticleService) Get(ctx context.Context, id string) (*model.Article, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

// mockContributionSource はContributionSourceInterfaceのモック実装。
type mockContributionSource struct {
	fetchFn func(ctx context.Context) (model.ContributionData, error)
}

func (m *mockContributionSource) Fetch(ctx context.Context) (model.ContributionData, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return model.ContributionData{}, nil
}

// コンパイル時にインターフェースを満たすことを検証
var (
	_ FeedServiceInterface        = (*mockFeedService)(nil)
	_ RepoListerInterface         = (*mockRepoLister)(nil)
	_ ArticleServiceInterface     = (*mockArticleService)(nil)
	_ ContributionSourceInterface = (*mockContributionSource)(nil)
)
