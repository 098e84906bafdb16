// Package article は記事リポジトリのMarkdown記事を取得・整形する。
package article

import (
	"path"
	"regexp"
	"strings"

	"github.com/hitoshi/termfolio/internal/model"
)

const (
	// ListPreviewLength は記事一覧のプレビュー最大文字数。
	ListPreviewLength = 300
	// LatestPreviewLength は最新記事カードのプレビュー最大文字数。
	LatestPreviewLength = 250

	markdownExt = ".md"
)

// titlePattern は文書中で最初に現れるレベル1見出しに一致する。
var titlePattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t\r]*$`)

// IsMarkdownFile はディレクトリ一覧のエントリがMarkdownファイルかを判定する。
func IsMarkdownFile(e model.ContentEntry) bool {
	return e.Type == "file" && strings.HasSuffix(e.Name, markdownExt)
}

// FilterMarkdown はディレクトリ一覧からMarkdownファイルのみを一覧順のまま抽出する。
func FilterMarkdown(entries []model.ContentEntry) []model.ContentEntry {
	files := make([]model.ContentEntry, 0, len(entries))
	for _, e := range entries {
		if IsMarkdownFile(e) {
			files = append(files, e)
		}
	}
	return files
}

// ExtractTitle は最初のレベル1見出しをタイトルとして取り出し、見出しを除いた本文を返す。
// 見出しがない場合はファイル名から拡張子を除いたものをタイトルとする。
func ExtractTitle(fileName, markdown string) (title, body string) {
	loc := titlePattern.FindStringSubmatchIndex(markdown)
	if loc == nil {
		return strings.TrimSuffix(path.Base(fileName), markdownExt), strings.TrimSpace(markdown)
	}
	title = markdown[loc[2]:loc[3]]
	body = markdown[:loc[0]] + markdown[loc[1]:]
	return title, strings.TrimSpace(body)
}

// Preview は本文の先頭n文字（rune単位）を返し、切り詰めた場合のみ末尾に"..."を付与する。
func Preview(body string, n int) string {
	runes := []rune(body)
	if len(runes) <= n {
		return body
	}
	return string(runes[:n]) + "..."
}

// Matches は記事がクエリに一致するかを大文字小文字を区別せずに判定する。
// タイトル、ファイル名、本文のいずれかに部分一致すれば一致とする。空クエリは常に一致する。
func Matches(a model.Article, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.FileName), q) ||
		strings.Contains(strings.ToLower(a.Content), q)
}

// Search はクエリに一致する記事を元の順序のまま返す。
func Search(articles []model.Article, query string) []model.Article {
	matched := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if Matches(a, query) {
			matched = append(matched, a)
		}
	}
	return matched
}
