// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"

	"github.com/hitoshi/termfolio/internal/model"
)

// PostRepository はフィード投稿の永続化インターフェース。
// activity.PostSourceとしても利用できる。
type PostRepository interface {
	// ListPosts は全投稿を公開日の新しい順に取得する。
	ListPosts(ctx context.Context) ([]model.Post, error)

	// Upsert はスラッグ（Post.ID）をキーに投稿を作成または更新する。
	// 新規作成した場合はtrueを返す。
	Upsert(ctx context.Context, post *model.Post) (bool, error)
}
