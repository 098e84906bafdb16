package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
)

// UserAgent は外部APIへのリクエストに付与するUser-Agent。
const UserAgent = "termfolio/1.0"

// DefaultMaxBodySize はレスポンスボディの既定上限（5MB）。
const DefaultMaxBodySize int64 = 5 * 1024 * 1024

// Recorder は外部取得の結果を記録するインターフェース。
// metrics.Collectorが実装する。
type Recorder interface {
	RecordUpstream(source string, statusCode int, duration time.Duration, err error)
}

// Getter はGETリクエストでレスポンスボディを取得するインターフェース。
// テスト時にモックに差し替え可能。
type Getter interface {
	Get(ctx context.Context, source, rawURL string, header http.Header) ([]byte, error)
}

// Fetcher は外部データソースからのHTTP取得を行う。
// ステータス分類、ボディサイズ制限、ログ出力、メトリクス記録をまとめて扱う。
type Fetcher struct {
	client      *http.Client
	logger      *slog.Logger
	maxBodySize int64
	recorder    Recorder
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
// maxBodySizeが0以下の場合はDefaultMaxBodySizeを使用する。recorderはnilでもよい。
func NewFetcher(client *http.Client, logger *slog.Logger, maxBodySize int64, recorder Recorder) *Fetcher {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &Fetcher{
		client:      client,
		logger:      logger,
		maxBodySize: maxBodySize,
		recorder:    recorder,
	}
}

// Get はrawURLへGETリクエストを送り、2xxの場合にレスポンスボディを返す。
// 失敗時は model.ErrUpstreamUnavailable / ErrRateLimited / ErrNotFound をラップしたエラーを返す。
func (f *Fetcher) Get(ctx context.Context, source, rawURL string, header http.Header) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w: %w", model.ErrUpstreamUnavailable, err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		duration := time.Since(start)
		f.logger.Error("外部APIへのリクエストに失敗しました",
			slog.String("source", source),
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
		wrapped := fmt.Errorf("%s へのリクエストに失敗: %w: %w", source, model.ErrUpstreamUnavailable, err)
		f.record(source, 0, duration, wrapped)
		return nil, wrapped
	}
	defer resp.Body.Close()

	if statusErr := StatusError(source, resp.StatusCode); statusErr != nil {
		duration := time.Since(start)
		f.logger.Warn("外部APIがエラーステータスを返しました",
			slog.String("source", source),
			slog.String("url", rawURL),
			slog.Int("http_status", resp.StatusCode),
			slog.String("result", ClassifyHTTPStatus(resp.StatusCode).String()),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
		f.record(source, resp.StatusCode, duration, statusErr)
		return nil, statusErr
	}

	// 上限+1バイトまで読み、上限超過を検出する
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err == nil && int64(len(body)) > f.maxBodySize {
		err = fmt.Errorf("レスポンスサイズが上限 %d バイトを超えています", f.maxBodySize)
	}
	duration := time.Since(start)
	if err != nil {
		f.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("source", source),
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		wrapped := fmt.Errorf("%s のレスポンス読み取りに失敗: %w: %w", source, model.ErrUpstreamUnavailable, err)
		f.record(source, resp.StatusCode, duration, wrapped)
		return nil, wrapped
	}

	f.logger.Info("外部APIから取得しました",
		slog.String("source", source),
		slog.String("url", rawURL),
		slog.Int("http_status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
	f.record(source, resp.StatusCode, duration, nil)

	return body, nil
}

func (f *Fetcher) record(source string, statusCode int, duration time.Duration, err error) {
	if f.recorder != nil {
		f.recorder.RecordUpstream(source, statusCode, duration, err)
	}
}

// DecodeJSON はレスポンスボディをvへデコードする。
// 失敗時は model.ErrMalformedResponse をラップしたエラーを返す。
func DecodeJSON(source string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s のレスポンスJSONのパースに失敗: %w: %w", source, model.ErrMalformedResponse, err)
	}
	return nil
}
