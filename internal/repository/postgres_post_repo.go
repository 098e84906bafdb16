package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/termfolio/internal/model"
)

// postDateLayout はpublished_on列とPost.Dateの相互変換に使用する書式。
const postDateLayout = "2006-01-02"

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// ListPosts は全投稿を公開日の新しい順に取得する。Post.IDにはスラッグを設定する。
func (r *PostgresPostRepo) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, title, published_on, content, image_url, tags, created_at
		 FROM posts
		 ORDER BY published_on DESC, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var (
			p           model.Post
			publishedOn time.Time
			tags        []string
		)
		if err := rows.Scan(&p.ID, &p.Title, &publishedOn, &p.Content, &p.ImageURL, pq.Array(&tags), &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("投稿のスキャンに失敗しました: %w", err)
		}
		p.Date = publishedOn.Format(postDateLayout)
		p.Tags = tags
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("投稿一覧の走査に失敗しました: %w", err)
	}

	return posts, nil
}

// Upsert はスラッグ（Post.ID）をキーに投稿を作成または更新する。
// 新規作成時の主キーはUUIDで採番する。新規作成した場合はtrueを返す。
func (r *PostgresPostRepo) Upsert(ctx context.Context, post *model.Post) (bool, error) {
	if post.ID == "" {
		return false, fmt.Errorf("投稿のスラッグが空です")
	}
	publishedOn, err := time.Parse(postDateLayout, post.Date)
	if err != nil {
		return false, fmt.Errorf("投稿 %s の日付が不正です: %w", post.ID, err)
	}

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	var inserted bool
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO posts (id, slug, title, published_on, content, image_url, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (slug) DO UPDATE SET
		     title = EXCLUDED.title,
		     published_on = EXCLUDED.published_on,
		     content = EXCLUDED.content,
		     image_url = EXCLUDED.image_url,
		     tags = EXCLUDED.tags,
		     updated_at = now()
		 RETURNING (xmax = 0)`,
		uuid.New().String(), post.ID, post.Title, publishedOn,
		post.Content, post.ImageURL, pq.Array(tags),
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("投稿 %s の保存に失敗しました: %w", post.ID, err)
	}

	return inserted, nil
}
