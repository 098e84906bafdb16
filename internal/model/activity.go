// Package model はドメインモデルを定義する。
package model

import "time"

// ActivityKind はアクティビティフィード項目の種別を表す。
type ActivityKind string

const (
	// ActivityKindRepository はリポジトリ更新イベントを表す。
	ActivityKindRepository ActivityKind = "repository"
	// ActivityKindArticle はローカル投稿（記事）を表す。
	ActivityKindArticle ActivityKind = "article"
)

// ActivityItem はアクティビティフィードの1項目を表す。
// Kind によって URL（repository）または Tags（article）のいずれかを持つ。
// IDの一意性は種別内でのみ保証されるため、表示上の識別キーは (Kind, ID) とする。
// 生成後は変更しない。
type ActivityItem struct {
	Kind        ActivityKind
	ID          string
	Title       string
	Timestamp   time.Time
	Description string
	URL         string   // repository のみ
	Tags        []string // article のみ
}

// Key は表示用の識別キーを返す。
func (a ActivityItem) Key() string {
	return string(a.Kind) + ":" + a.ID
}
