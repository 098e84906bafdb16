package handler

import (
	"net/http"

	"github.com/hitoshi/termfolio/internal/model"
)

// ProfileHandler はプロフィール（経歴・スキル・リンク）を返すHTTPハンドラー。
type ProfileHandler struct {
	profile model.Profile
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(profile model.Profile) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// GetProfile はプロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.profile)
}
