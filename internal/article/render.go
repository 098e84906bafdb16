package article

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hitoshi/termfolio/internal/security"
)

// Renderer はMarkdown本文を表示用の安全なHTMLへ変換する。
// 変換順序: goldmark(GFM)でHTML化 → 相対URLを生ファイルURLへ書き換え → bluemondayでサニタイズ。
type Renderer struct {
	md        goldmark.Markdown
	sanitizer security.HTMLSanitizer
	assetBase string
}

// NewRenderer はRendererを生成する。
// assetBaseは相対パスの解決先で、{raw}/{owner}/{repo}/{branch} の形式を想定する。
func NewRenderer(sanitizer security.HTMLSanitizer, assetBase string) *Renderer {
	return &Renderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: sanitizer,
		assetBase: strings.TrimRight(assetBase, "/"),
	}
}

// AssetBase は生ファイルURLのベースを組み立てる。
func AssetBase(rawURL, owner, repo, branch string) string {
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(rawURL, "/"), owner, repo, branch)
}

// Render はMarkdownをHTMLへ変換する。
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("Markdownの変換に失敗: %w", err)
	}

	rewritten, err := r.RewriteRelativeURLs(buf.String())
	if err != nil {
		return "", err
	}

	return r.sanitizer.Sanitize(rewritten), nil
}

// ResolveURL は相対URLを生ファイルURLへ解決する。
// 絶対URL、スキーム相対URL、ページ内アンカー、mailto等はそのまま返す。
func (r *Renderer) ResolveURL(ref string) string {
	if ref == "" || isAbsoluteRef(ref) {
		return ref
	}
	clean := strings.TrimPrefix(ref, "./")
	clean = strings.TrimPrefix(clean, "/")
	return r.assetBase + "/" + clean
}

func isAbsoluteRef(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http") ||
		strings.HasPrefix(ref, "//") ||
		strings.HasPrefix(ref, "#") ||
		strings.Contains(strings.SplitN(lower, "/", 2)[0], ":")
}

// RewriteRelativeURLs はHTML断片中のimg[src]とa[href]の相対URLを書き換える。
func (r *Renderer) RewriteRelativeURLs(fragment string) (string, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return "", fmt.Errorf("HTMLの解析に失敗: %w", err)
	}

	var out bytes.Buffer
	for _, n := range nodes {
		r.rewriteNode(n)
		if err := html.Render(&out, n); err != nil {
			return "", fmt.Errorf("HTMLの出力に失敗: %w", err)
		}
	}
	return out.String(), nil
}

func (r *Renderer) rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode {
		var key string
		switch n.DataAtom {
		case atom.Img:
			key = "src"
		case atom.A:
			key = "href"
		}
		if key != "" {
			for i := range n.Attr {
				if n.Attr[i].Key == key {
					n.Attr[i].Val = r.ResolveURL(n.Attr[i].Val)
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.rewriteNode(c)
	}
}
