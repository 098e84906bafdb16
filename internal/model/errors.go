// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, upstream, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeArticleNotFound  = "ARTICLE_NOT_FOUND"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeUpstreamFailed   = "UPSTREAM_FAILED"
	ErrCodeRateLimited      = "UPSTREAM_RATE_LIMITED"
	ErrCodeSourceNotFound   = "SOURCE_NOT_FOUND"
	ErrCodeTooManyRequests  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// 外部データソースの失敗分類。
// クライアントはこれらを %w でラップして返し、呼び出し側は errors.Is で判定する。
var (
	// ErrUpstreamUnavailable は接続失敗や予期しないステータスを表す。
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrRateLimited は外部APIのレート制限（403/429）を表す。
	ErrRateLimited = errors.New("upstream rate limited")
	// ErrNotFound は取得対象が存在しない（404/410）ことを表す。
	ErrNotFound = errors.New("upstream resource not found")
	// ErrMalformedResponse はレスポンス形式が想定と異なることを表す。
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrContributionsUnavailable はコントリビューションデータを読み込めなかったことを表す。
	// 「コントリビューションが0件」とは区別される。
	ErrContributionsUnavailable = errors.New("contributions unavailable")
)

// NewArticleNotFoundError は記事未検出エラーを生成する。
func NewArticleNotFoundError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotFound,
		Message:  fmt.Sprintf("指定された記事が見つかりません: %s", articleID),
		Category: "content",
		Action:   "記事IDを確認してください。",
	}
}

// NewInvalidParameterError は無効なパラメータエラーを生成する。
func NewInvalidParameterError(name, value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidParameter,
		Message:  fmt.Sprintf("無効なパラメータです: %s=%s", name, value),
		Category: "validation",
		Action:   "パラメータの値を確認してください。",
	}
}

// UpstreamSource は外部データソースの表示名と取得失敗時のメッセージを表す。
type UpstreamSource struct {
	// Name は未検出メッセージ（"<Name> not found."）に使う名称。
	Name string
	// FailureMessage はその他の取得失敗時のメッセージ。空の場合は "Failed to fetch <Name>." を使う。
	FailureMessage string
}

// NewUpstreamError は外部データソースの失敗を統一エラーに変換する。
// レート制限と未検出は専用のコードとメッセージを持つ。
func NewUpstreamError(source UpstreamSource, err error) *APIError {
	switch {
	case errors.Is(err, ErrRateLimited):
		return &APIError{
			Code:     ErrCodeRateLimited,
			Message:  "GitHub API Rate Limit Exceeded. Try again later.",
			Category: "upstream",
			Action:   "しばらく待ってから再度お試しください。",
		}
	case errors.Is(err, ErrNotFound):
		return &APIError{
			Code:     ErrCodeSourceNotFound,
			Message:  fmt.Sprintf("%s not found.", source.Name),
			Category: "upstream",
			Action:   "設定されたユーザー名・リポジトリ名を確認してください。",
		}
	default:
		msg := source.FailureMessage
		if msg == "" {
			msg = fmt.Sprintf("Failed to fetch %s.", source.Name)
		}
		return &APIError{
			Code:     ErrCodeUpstreamFailed,
			Message:  msg,
			Category: "upstream",
			Action:   "しばらく待ってから再度お試しください。",
		}
	}
}

// NewTooManyRequestsError はクライアントからのリクエスト過多エラーを生成する。
func NewTooManyRequestsError() *APIError {
	return &APIError{
		Code:     ErrCodeTooManyRequests,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Retry-Afterヘッダーの秒数だけ待ってから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログにのみ記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
