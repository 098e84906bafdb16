// Package content はプロフィールとフィード投稿を定義するYAML文書を読み込む。
// 既定ではバイナリに埋め込んだ content.yaml を使用する。
package content

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/termfolio/internal/model"
)

//go:embed content.yaml
var embeddedDocument []byte

// Document はコンテンツ文書全体を表す。
type Document struct {
	Profile model.Profile `yaml:"profile"`
	Posts   []PostEntry   `yaml:"posts"`
}

// PostEntry はYAML上の投稿定義を表す。
type PostEntry struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Content  string   `yaml:"content"`
	ImageURL string   `yaml:"image_url"`
	Tags     []string `yaml:"tags"`
}

// Parse はYAML文書を解析し、必須項目と投稿IDの重複を検証する。
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("コンテンツ文書のパースに失敗: %w", err)
	}

	if strings.TrimSpace(doc.Profile.Name) == "" {
		return nil, fmt.Errorf("profile.name は必須です")
	}

	seen := make(map[string]struct{}, len(doc.Posts))
	for i, p := range doc.Posts {
		if p.ID == "" || p.Title == "" {
			return nil, fmt.Errorf("posts[%d]: id と title は必須です", i)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("posts[%d]: id %q が重複しています", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return &doc, nil
}

// Load はpathのYAML文書を読み込む。pathが空の場合は埋め込み文書を使用する。
func Load(path string) (*Document, error) {
	if path == "" {
		return Parse(embeddedDocument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("コンテンツ文書の読み込みに失敗: %w", err)
	}
	return Parse(data)
}

// ModelPosts は投稿定義をドメインモデルへ変換する。
func (d *Document) ModelPosts() []model.Post {
	posts := make([]model.Post, 0, len(d.Posts))
	for _, p := range d.Posts {
		tags := make([]string, len(p.Tags))
		copy(tags, p.Tags)
		posts = append(posts, model.Post{
			ID:       p.ID,
			Title:    p.Title,
			Date:     p.Date,
			Content:  p.Content,
			ImageURL: p.ImageURL,
			Tags:     tags,
		})
	}
	return posts
}

// StaticPosts は文書に定義された投稿を返すPostSource。
type StaticPosts struct {
	posts []model.Post
}

// NewStaticPosts はStaticPostsを生成する。
func NewStaticPosts(doc *Document) *StaticPosts {
	return &StaticPosts{posts: doc.ModelPosts()}
}

// ListPosts は投稿の複製を返す。
func (s *StaticPosts) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts := make([]model.Post, len(s.posts))
	copy(posts, s.posts)
	return posts, nil
}
