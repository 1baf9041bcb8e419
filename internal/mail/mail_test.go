// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"strings"
	"testing"
)

func TestNewUnconfiguredReturnsNil(t *testing.T) {
	for _, tt := range []struct{ host, from string }{
		{"", "noreply@example.com"},
		{"smtp.example.com", ""},
		{"", ""},
	} {
		m, err := New(tt.host, "587", "", "", tt.from)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tt.host, tt.from, err)
		}
		if m != nil {
			t.Errorf("New(%q, %q) = %+v, want nil for unconfigured mail", tt.host, tt.from, m)
		}
	}
}

func TestNewDefaultsPort(t *testing.T) {
	m, err := New("smtp.example.com", "", "", "", "noreply@example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.addr != "smtp.example.com:587" {
		t.Errorf("addr = %q, want the 587 default", m.addr)
	}
}

func TestBuildMessageEncodesKoreanSubject(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "user@example.com", "임시 비밀번호 안내", "본문입니다."))

	if !strings.Contains(msg, "To: user@example.com\r\n") {
		t.Errorf("message missing To header: %q", msg)
	}
	if strings.Contains(msg, "Subject: 임시") {
		t.Errorf("Korean subject left unencoded: %q", msg)
	}
	if !strings.Contains(msg, "=?utf-8?q?") {
		t.Errorf("subject not MIME-encoded: %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n본문입니다.") {
		t.Errorf("body not separated from headers: %q", msg)
	}
}
