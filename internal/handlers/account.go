// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"postpilot/internal/imaging"
	"postpilot/internal/middleware"
)

// avatarMaxWidth bounds stored avatar images.
const avatarMaxWidth = 256

// tempPasswordLength sizes generated temporary passwords.
const tempPasswordLength = 12

// ChangePassword replaces the account password after verifying the current
// one.
func (a *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if len(req.NewPassword) < 8 {
		apiError(w, http.StatusBadRequest, "새 비밀번호는 8자 이상이어야 합니다.")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("password change lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "사용자 정보를 불러오지 못했습니다.")
		return
	}
	if !a.userStore.CheckPassword(user, req.CurrentPassword) {
		apiError(w, http.StatusUnauthorized, "현재 비밀번호가 올바르지 않습니다.")
		return
	}

	if err := a.userStore.UpdatePassword(user.ID, req.NewPassword); err != nil {
		slog.Error("password change failed", "error", err)
		apiError(w, http.StatusInternalServerError, "비밀번호 변경에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetPassword issues a temporary password and mails it to the account.
// The response never reveals whether the email is registered, and nothing
// is reset unless the mail can actually be delivered.
func (a *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	resp := map[string]string{
		"status":  "ok",
		"message": "등록된 이메일이라면 임시 비밀번호를 발송했습니다.",
	}

	if a.mailer == nil {
		slog.Warn("password reset requested but SMTP is not configured", "email", req.Email)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("password reset lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "비밀번호 재설정에 실패했습니다.")
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	temp, err := tempPassword(tempPasswordLength)
	if err != nil {
		slog.Error("temporary password generation failed", "error", err)
		apiError(w, http.StatusInternalServerError, "비밀번호 재설정에 실패했습니다.")
		return
	}

	if err := a.userStore.UpdatePassword(user.ID, temp); err != nil {
		slog.Error("password reset update failed", "error", err)
		apiError(w, http.StatusInternalServerError, "비밀번호 재설정에 실패했습니다.")
		return
	}

	body := fmt.Sprintf(
		"안녕하세요, %s님.\n\n임시 비밀번호: %s\n\n로그인 후 반드시 비밀번호를 변경해주세요.\n",
		user.DisplayName, temp,
	)
	if err := a.mailer.Send(user.Email, "임시 비밀번호 안내", body); err != nil {
		slog.Error("password reset mail failed", "error", err)
		apiError(w, http.StatusInternalServerError, "임시 비밀번호 발송에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateProfile changes the display name and optionally the avatar. The
// avatar arrives as a data URL; when S3 is configured a downscaled JPEG is
// stored and its public URL saved.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarImage string `json:"avatar_image"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if req.DisplayName == "" {
		apiError(w, http.StatusBadRequest, "표시 이름을 입력해주세요.")
		return
	}

	var avatarURL *string
	if req.AvatarImage != "" {
		stored := a.storeAvatar(r, sess.UserID, req.AvatarImage)
		if stored != "" {
			avatarURL = &stored
		}
	}

	user, err := a.userStore.UpdateProfile(sess.UserID, req.DisplayName, avatarURL)
	if err != nil {
		slog.Error("profile update failed", "error", err)
		apiError(w, http.StatusInternalServerError, "프로필 저장에 실패했습니다.")
		return
	}

	sess.DisplayName = user.DisplayName
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Warn("session refresh after profile update failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"user":   userPayload(user),
	})
}

// storeAvatar uploads a downscaled avatar to S3 and returns its public URL.
// Any failure falls back to keeping the data URL inline so the profile save
// never fails over an image.
func (a *Auth) storeAvatar(r *http.Request, userID uuid.UUID, dataURL string) string {
	if a.storage == nil {
		return dataURL
	}

	raw, _, err := imaging.DecodeDataURL(dataURL)
	if err != nil {
		slog.Warn("avatar decode failed", "error", err)
		return dataURL
	}

	preview, err := imaging.PreviewJPEG(raw, avatarMaxWidth)
	if err != nil {
		slog.Warn("avatar preview failed", "error", err)
		return dataURL
	}

	key := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.New())
	if err := a.storage.Upload(r.Context(), key, "image/jpeg", preview); err != nil {
		slog.Warn("avatar upload failed", "error", err)
		return dataURL
	}
	return a.storage.FileURL(key)
}

// tempPasswordAlphabet omits easily confused characters (0/O, 1/l/I).
const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// tempPassword returns a random password of n characters.
func tempPassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = tempPasswordAlphabet[int(b)%len(tempPasswordAlphabet)]
	}
	return string(buf), nil
}
