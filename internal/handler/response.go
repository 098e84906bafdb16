package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/termfolio/internal/middleware"
	"github.com/hitoshi/termfolio/internal/model"
)

// sectionState はセクション単位の取得結果を表す。
// 外部データソースの失敗はHTTPエラーではなく、200レスポンス内の状態として返す。
type sectionState string

const (
	sectionOK    sectionState = "ok"
	sectionEmpty sectionState = "empty"
	sectionError sectionState = "error"
)

// newSectionError はセクション内に表示するエラー情報を生成する。
func newSectionError(apiErr *model.APIError) *middleware.ErrorResponseBody {
	body := middleware.NewErrorResponseBody(apiErr)
	return &body
}

// writeJSON はステータスコード200以外も含めてJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeAPIErrorResponse はAPIErrorを統一フォーマットのJSONレスポンスとして書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case model.ErrCodeArticleNotFound:
		return http.StatusNotFound
	case model.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case model.ErrCodeRateLimited:
		return http.StatusServiceUnavailable
	case model.ErrCodeUpstreamFailed, model.ErrCodeSourceNotFound:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sectionHeader はセクション型レスポンスに共通する状態フィールド。
type sectionHeader struct {
	State sectionState                 `json:"state"`
	Error *middleware.ErrorResponseBody `json:"error,omitempty"`
}

// okOrEmpty は件数に応じてokまたはemptyの状態を返す。
func okOrEmpty(n int) sectionHeader {
	if n == 0 {
		return sectionHeader{State: sectionEmpty}
	}
	return sectionHeader{State: sectionOK}
}

// failedSection は外部データソースの失敗を表すセクション状態を返す。
func failedSection(source model.UpstreamSource, err error) sectionHeader {
	return sectionHeader{
		State: sectionError,
		Error: newSectionError(model.NewUpstreamError(source, err)),
	}
}
