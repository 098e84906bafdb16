// Package upstream は外部データソースへのHTTP取得と失敗分類を提供する。
// GitHub API、コントリビューションAPI、記事の生ファイル取得で共通に使用する。
package upstream

import (
	"fmt"

	"github.com/hitoshi/termfolio/internal/model"
)

// Result はHTTPステータスコードに基づく取得結果の分類。
type Result int

const (
	// ResultOK は取得成功（2xx）。
	ResultOK Result = iota
	// ResultRateLimited はレート制限（403/429）。
	ResultRateLimited
	// ResultNotFound は取得対象が存在しない（404/410）。
	ResultNotFound
	// ResultFailure はその他の失敗（5xxや予期しないステータス）。
	ResultFailure
)

// String はログ出力用の分類名を返す。
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultRateLimited:
		return "rate_limited"
	case ResultNotFound:
		return "not_found"
	default:
		return "failure"
	}
}

// ClassifyHTTPStatus はHTTPステータスコードを取得結果に分類する。
// GitHub APIは未認証のレート制限超過時に403を返すため、403もレート制限として扱う。
func ClassifyHTTPStatus(statusCode int) Result {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return ResultOK
	case statusCode == 403 || statusCode == 429:
		return ResultRateLimited
	case statusCode == 404 || statusCode == 410:
		return ResultNotFound
	default:
		return ResultFailure
	}
}

// StatusError はHTTPステータスコードを分類済みのエラーに変換する。
// 2xxの場合はnilを返す。
func StatusError(source string, statusCode int) error {
	switch ClassifyHTTPStatus(statusCode) {
	case ResultOK:
		return nil
	case ResultRateLimited:
		return fmt.Errorf("%s がステータス %d を返しました: %w", source, statusCode, model.ErrRateLimited)
	case ResultNotFound:
		return fmt.Errorf("%s がステータス %d を返しました: %w", source, statusCode, model.ErrNotFound)
	default:
		return fmt.Errorf("%s がステータス %d を返しました: %w", source, statusCode, model.ErrUpstreamUnavailable)
	}
}
