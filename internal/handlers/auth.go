package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	netmail "net/mail"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"postpilot/internal/mail"
	"postpilot/internal/middleware"
	"postpilot/internal/models"
	"postpilot/internal/session"
	"postpilot/internal/storage"
	"postpilot/internal/store"
)

// totpIssuer labels codes in authenticator apps.
const totpIssuer = "PostPilot"

// Auth groups all authentication and account management HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
	mailer    *mail.Mailer    // nil when SMTP is not configured
	storage   *storage.Client // nil when S3 is not configured
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore, mailer *mail.Mailer, st *storage.Client) *Auth {
	return &Auth{sessions: sessions, userStore: userStore, mailer: mailer, storage: st}
}

// userPayload is the safe subset of a user returned by the API.
func userPayload(u *models.User) map[string]any {
	p := map[string]any{
		"email":        u.Email,
		"display_name": u.DisplayName,
		"totp_enabled": u.TOTPEnabled,
	}
	if u.AvatarURL != nil {
		p["avatar_url"] = *u.AvatarURL
	}
	return p
}

// Signup registers a new account and signs it in.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	if _, err := netmail.ParseAddress(req.Email); err != nil {
		apiError(w, http.StatusBadRequest, "올바른 이메일 주소를 입력해주세요.")
		return
	}
	if len(req.Password) < 8 {
		apiError(w, http.StatusBadRequest, "비밀번호는 8자 이상이어야 합니다.")
		return
	}

	if existing, err := a.userStore.FindByEmail(req.Email); err != nil {
		slog.Error("signup lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "회원가입에 실패했습니다.")
		return
	} else if existing != nil {
		apiError(w, http.StatusConflict, "이미 등록된 이메일입니다.")
		return
	}

	user, err := a.userStore.Create(req.Email, req.Password, req.DisplayName)
	if err != nil {
		slog.Error("signup create failed", "error", err)
		apiError(w, http.StatusInternalServerError, "회원가입에 실패했습니다.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   true, // 2FA not set up yet, nothing to verify
	}); err != nil {
		slog.Error("session create failed", "error", err)
		apiError(w, http.StatusInternalServerError, "세션 생성에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "ok",
		"user":   userPayload(user),
	})
}

// Login validates credentials and opens a session. Accounts with 2FA
// enabled get a session that still requires a TOTP verification.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "로그인에 실패했습니다.")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		apiError(w, http.StatusUnauthorized, "이메일 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   !user.TOTPEnabled, // 2FA accounts must verify a code first
	}); err != nil {
		slog.Error("session create failed", "error", err)
		apiError(w, http.StatusInternalServerError, "세션 생성에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"user":         userPayload(user),
		"two_fa_done":  !user.TOTPEnabled,
		"requires_2fa": user.TOTPEnabled,
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("me lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "사용자 정보를 불러오지 못했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"user":   userPayload(user),
	})
}

// TwoFASetup generates a TOTP secret for the account and returns it with a
// QR code for authenticator apps.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		apiError(w, http.StatusInternalServerError, "2단계 인증 설정에 실패했습니다.")
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		apiError(w, http.StatusInternalServerError, "2단계 인증 설정에 실패했습니다.")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		apiError(w, http.StatusInternalServerError, "QR 코드 생성에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"secret":        key.Secret(),
		"qr_png_base64": base64.StdEncoding.EncodeToString(qrPNG),
		"otpauth_url":   key.URL(),
	})
}

// TwoFAVerify validates a TOTP code, enabling 2FA on first success and
// marking the session as fully verified.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		apiError(w, http.StatusInternalServerError, "사용자 정보를 불러오지 못했습니다.")
		return
	}
	if user.TOTPSecret == nil {
		apiError(w, http.StatusBadRequest, "2단계 인증이 설정되어 있지 않습니다.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		apiError(w, http.StatusUnauthorized, "인증 코드가 올바르지 않습니다.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			apiError(w, http.StatusInternalServerError, "2단계 인증 활성화에 실패했습니다.")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		apiError(w, http.StatusInternalServerError, "세션 갱신에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
