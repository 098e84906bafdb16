package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/termfolio/internal/activity"
	"github.com/hitoshi/termfolio/internal/model"
)

// reposSource はリポジトリ一覧取得失敗時のエラー表示に使うソース情報。
var reposSource = model.UpstreamSource{
	Name:           "Repositories",
	FailureMessage: "Failed to access repository database.",
}

// RepoListerInterface はリポジトリハンドラーが必要とするインターフェース。
type RepoListerInterface interface {
	ListRepos(ctx context.Context) ([]model.Repo, error)
}

// RepoHandler はリポジトリ一覧のHTTPハンドラー。
type RepoHandler struct {
	lister RepoListerInterface
}

// NewRepoHandler はRepoHandlerを生成する。
func NewRepoHandler(lister RepoListerInterface) *RepoHandler {
	return &RepoHandler{lister: lister}
}

// repoResponse はリポジトリ概要のレスポンス。
type repoResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// repoListResponse はリポジトリ一覧のレスポンス。
type repoListResponse struct {
	sectionHeader
	Repos []repoResponse `json:"repos"`
}

// ListRepos はリポジトリ一覧を更新日時の新しい順で返す。
// GET /api/repos
func (h *RepoHandler) ListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.lister.ListRepos(r.Context())
	if err != nil {
		slog.Warn("failed to list repositories", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, repoListResponse{
			sectionHeader: failedSection(reposSource, err),
			Repos:         []repoResponse{},
		})
		return
	}

	resp := repoListResponse{
		sectionHeader: okOrEmpty(len(repos)),
		Repos:         make([]repoResponse, 0, len(repos)),
	}
	for _, repo := range repos {
		resp.Repos = append(resp.Repos, toRepoResponse(repo))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toRepoResponse(repo model.Repo) repoResponse {
	desc := repo.Description
	if desc == "" {
		desc = activity.NoDescription
	}
	return repoResponse{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: desc,
		HTMLURL:     repo.HTMLURL,
		Language:    repo.Language,
		Stars:       repo.StargazersCount,
		Forks:       repo.ForksCount,
		UpdatedAt:   repo.UpdatedAt,
	}
}
