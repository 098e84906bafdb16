// Package activity はローカル投稿とリポジトリ更新を1本のアクティビティフィードへ集約する。
package activity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
)

const (
	// DefaultLimit はフィードの既定表示件数。
	DefaultLimit = 4
	// DescriptionLength は投稿本文から切り出す説明文の最大文字数。
	DescriptionLength = 80
	// TruncationMarker は切り詰めが発生した場合に付与する記号。
	TruncationMarker = "..."
	// NoDescription はリポジトリに説明文がない場合の代替文言。
	NoDescription = "No description provided."
)

// postDateLayouts は投稿日付として受け付ける書式。日付のみの場合はUTCの0時とする。
var postDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// FromPost はローカル投稿をarticle種別のActivityItemに変換する。
// 日付を解釈できない場合はエラーを返す。
func FromPost(p model.Post) (model.ActivityItem, error) {
	ts, err := parsePostDate(p.Date)
	if err != nil {
		return model.ActivityItem{}, fmt.Errorf("投稿 %s の日付を解釈できません: %w", p.ID, err)
	}

	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)

	return model.ActivityItem{
		Kind:        model.ActivityKindArticle,
		ID:          p.ID,
		Title:       p.Title,
		Timestamp:   ts,
		Description: Truncate(p.Content, DescriptionLength),
		Tags:        tags,
	}, nil
}

// FromRepo はリポジトリ概要をrepository種別のActivityItemに変換する。
// タイムスタンプはリポジトリの最終更新日時とする。
func FromRepo(r model.Repo) model.ActivityItem {
	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		desc = NoDescription
	}

	return model.ActivityItem{
		Kind:        model.ActivityKindRepository,
		ID:          strconv.FormatInt(r.ID, 10),
		Title:       r.Name,
		Timestamp:   r.UpdatedAt,
		Description: desc,
		URL:         r.HTMLURL,
	}
}

// Merge は2つの項目列を結合し、新しい順に並べて先頭limit件を返す。
// 同時刻の場合はarticleをrepositoryより前に置き、同種別内では入力順を保つ。
// limitが0以下の場合は空のフィードを返す。
func Merge(articles, repositories []model.ActivityItem, limit int) []model.ActivityItem {
	combined := make([]model.ActivityItem, 0, len(articles)+len(repositories))
	combined = append(combined, articles...)
	combined = append(combined, repositories...)

	sort.SliceStable(combined, func(i, j int) bool {
		a, b := combined[i], combined[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return kindRank(a.Kind) < kindRank(b.Kind)
	})

	if limit < 0 {
		limit = 0
	}
	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}

// Truncate は文字列を最大n文字（rune単位）に切り詰め、切り詰めた場合のみ末尾に記号を付与する。
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + TruncationMarker
}

// kindRank は同時刻の並び順を決める。
func kindRank(k model.ActivityKind) int {
	if k == model.ActivityKindArticle {
		return 0
	}
	return 1
}

func parsePostDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range postDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
