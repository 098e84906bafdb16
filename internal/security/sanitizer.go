// Package security はアプリケーションのセキュリティ機能を提供する。
//
// 外部リポジトリから取得したMarkdown記事のHTMLを許可リスト方式でサニタイズし、
// 生ファイル取得時のSSRFを防止する。
package security

import (
	"net/url"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer はレンダリング済み記事HTMLのサニタイズ機能のインターフェース。
type HTMLSanitizer interface {
	// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// codeLanguageClass はコードブロックのシンタックスハイライト用クラス。
var codeLanguageClass = regexp.MustCompile(`^language-[\w+#-]+$`)

// articleSanitizer はHTMLSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type articleSanitizer struct {
	policy *bluemonday.Policy
}

// NewArticleSanitizer はMarkdown由来のHTML向けサニタイザを生成する。
// ポリシーの内容:
//   - 許可タグ: 見出し, 段落, リスト, 引用, コード, 強調, 打ち消し線, 表, 水平線, a, img
//   - script, iframe, style および全てのon*イベント属性は除去
//   - URLはhttpsスキームのみ許可（相対URLは事前に絶対URLへ書き換える）
//   - aタグ: target="_blank" と rel="noopener noreferrer" を自動付与
func NewArticleSanitizer() *articleSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "del",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|center|right)$`)).OnElements("th", "td")
	p.AllowAttrs("class").Matching(codeLanguageClass).OnElements("code")

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return u.Host != ""
	})

	return &articleSanitizer{policy: p}
}

// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
func (s *articleSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
