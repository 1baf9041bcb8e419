// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so tests see pure defaults.
// envOrDefault treats empty as unset, so setting "" is equivalent.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"AI_GATEWAY_URL", "AI_GATEWAY_KEY", "AI_GATEWAY_MODEL", "AI_GATEWAY_IMAGE_MODEL",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_BUCKET", "S3_PUBLIC_URL",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env: got %q, want %q", cfg.Env, "development")
	}
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.GatewayModel != "google/gemini-2.5-flash" {
		t.Errorf("GatewayModel: got %q", cfg.GatewayModel)
	}
	if cfg.GatewayMaxRetries != 3 {
		t.Errorf("GatewayMaxRetries: got %d, want 3", cfg.GatewayMaxRetries)
	}
	if !cfg.IsDev() {
		t.Error("IsDev: expected true for development env")
	}
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for production with default DB password")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for production without gateway key")
	}
	if !strings.Contains(err.Error(), "AI_GATEWAY_KEY") {
		t.Errorf("error should mention AI_GATEWAY_KEY: %v", err)
	}

	t.Setenv("AI_GATEWAY_KEY", "gw-key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev: expected false for production env")
	}
}

func TestDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_USER", "pp")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "ppdb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := "postgres://pp:pw@db.internal:5433/ppdb?sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
}

func TestAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
}
