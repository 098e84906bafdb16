package model

import (
	"fmt"
	"testing"
)

func TestNewUpstreamError(t *testing.T) {
	custom := UpstreamSource{Name: "Articles repository", FailureMessage: "Failed to fetch article list."}
	plain := UpstreamSource{Name: "Repositories"}

	tests := []struct {
		name        string
		source      UpstreamSource
		err         error
		wantCode    string
		wantMessage string
	}{
		{"レート制限", custom, fmt.Errorf("contents: %w", ErrRateLimited), ErrCodeRateLimited, "GitHub API Rate Limit Exceeded. Try again later."},
		{"未検出", custom, fmt.Errorf("contents: %w", ErrNotFound), ErrCodeSourceNotFound, "Articles repository not found."},
		{"取得失敗（専用メッセージ）", custom, ErrUpstreamUnavailable, ErrCodeUpstreamFailed, "Failed to fetch article list."},
		{"取得失敗（既定メッセージ）", plain, ErrMalformedResponse, ErrCodeUpstreamFailed, "Failed to fetch Repositories."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewUpstreamError(tt.source, tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.Category != "upstream" {
				t.Errorf("Category = %q, want upstream", got.Category)
			}
		})
	}
}
