// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"postpilot/internal/middleware"
	"postpilot/internal/session"
)

func TestTempPassword(t *testing.T) {
	first, err := tempPassword(tempPasswordLength)
	if err != nil {
		t.Fatalf("tempPassword: %v", err)
	}
	if len(first) != tempPasswordLength {
		t.Errorf("len = %d, want %d", len(first), tempPasswordLength)
	}
	for _, c := range first {
		if !strings.ContainsRune(tempPasswordAlphabet, c) {
			t.Errorf("character %q outside the alphabet", c)
		}
	}

	second, err := tempPassword(tempPasswordLength)
	if err != nil {
		t.Fatalf("tempPassword: %v", err)
	}
	if first == second {
		t.Error("two generated passwords are identical")
	}
}

func TestResetPassword_DisabledWithoutSMTP(t *testing.T) {
	// Without a mailer the handler must answer generically and never touch
	// the user store, so nothing gets reset into the void.
	a := NewAuth(nil, nil, nil, nil)

	rr := postJSON(t, a.ResetPassword, `{"email":"someone@example.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" || !strings.Contains(resp["message"], "임시 비밀번호") {
		t.Errorf("body = %v, want the generic reset message", resp)
	}
}

func TestUpdateProfile_RequiresDisplayName(t *testing.T) {
	a := NewAuth(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", strings.NewReader(`{"display_name":""}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, &session.Data{
		UserID: uuid.New(),
	}))

	rr := httptest.NewRecorder()
	a.UpdateProfile(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "표시 이름") {
		t.Errorf("body = %q", rr.Body.String())
	}
}
