// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"postpilot/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "postpilot")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "postpilot")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Cascades clear their content,
// settings, and keyword rows. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

func TestUserCreateAndAuth(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "writer@store.test") })

	u, err := users.Create("writer@store.test", "hunter2pass", "Writer")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.PasswordHash == "hunter2pass" {
		t.Error("password stored in plaintext")
	}

	found, err := users.FindByEmail("writer@store.test")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatalf("FindByEmail = %+v, want id %s", found, u.ID)
	}

	if !users.CheckPassword(found, "hunter2pass") {
		t.Error("correct password rejected")
	}
	if users.CheckPassword(found, "wrong") {
		t.Error("wrong password accepted")
	}

	missing, err := users.FindByEmail("nobody@store.test")
	if err != nil {
		t.Fatalf("FindByEmail (missing): %v", err)
	}
	if missing != nil {
		t.Errorf("FindByEmail (missing) = %+v, want nil", missing)
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "totp@store.test") })

	u, err := users.Create("totp@store.test", "hunter2pass", "TOTP User")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.TOTPEnabled {
		t.Error("new user has 2FA enabled")
	}

	if err := users.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := users.EnableTOTP(u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	found, _ := users.FindByID(u.ID)
	if found == nil || !found.TOTPEnabled || found.TOTPSecret == nil {
		t.Fatalf("user after enable = %+v", found)
	}
}

func TestUserPasswordUpdate(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "rotate@store.test") })

	u, err := users.Create("rotate@store.test", "originalpass", "Rotator")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := users.UpdatePassword(u.ID, "freshpassword"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	found, _ := users.FindByID(u.ID)
	if found == nil {
		t.Fatal("user vanished after password update")
	}
	if users.CheckPassword(found, "originalpass") {
		t.Error("old password still accepted")
	}
	if !users.CheckPassword(found, "freshpassword") {
		t.Error("new password rejected")
	}
}

func TestUserProfileUpdate(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "profile@store.test") })

	u, err := users.Create("profile@store.test", "hunter2pass", "Before")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	avatar := "https://cdn.example.com/avatars/a.jpg"
	updated, err := users.UpdateProfile(u.ID, "After", &avatar)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.DisplayName != "After" {
		t.Errorf("DisplayName = %q, want After", updated.DisplayName)
	}
	if updated.AvatarURL == nil || *updated.AvatarURL != avatar {
		t.Errorf("AvatarURL = %v, want %q", updated.AvatarURL, avatar)
	}

	// A nil avatar keeps the stored one.
	kept, err := users.UpdateProfile(u.ID, "Again", nil)
	if err != nil {
		t.Fatalf("UpdateProfile (nil avatar): %v", err)
	}
	if kept.AvatarURL == nil || *kept.AvatarURL != avatar {
		t.Errorf("AvatarURL after nil update = %v, want kept %q", kept.AvatarURL, avatar)
	}
}

func TestContentLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	contents := NewContentStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "content@store.test") })

	u, err := users.Create("content@store.test", "hunter2pass", "Content User")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	c, err := contents.Create(u.ID, "제주도 여행", "제주도 여행 코스는?", "## 본문", nil)
	if err != nil {
		t.Fatalf("Create content: %v", err)
	}
	if c.PublishStatus != "pending" {
		t.Errorf("new record status = %q, want pending", c.PublishStatus)
	}

	list, err := contents.ListByUser(u.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].ID != c.ID {
		t.Fatalf("ListByUser = %+v", list)
	}

	if err := contents.MarkPublished(c.ID, u.ID, "42"); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}

	// Publishing is one-way; a second attempt must fail.
	if err := contents.MarkPublished(c.ID, u.ID, "43"); err == nil {
		t.Error("MarkPublished succeeded twice")
	}

	found, _ := contents.FindByID(c.ID, u.ID)
	if found == nil || !found.IsPublished() || found.WordPressPostID == nil || *found.WordPressPostID != "42" {
		t.Fatalf("record after publish = %+v", found)
	}

	if err := contents.Delete(c.ID, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, _ := contents.FindByID(c.ID, u.ID)
	if gone != nil {
		t.Error("record survived delete")
	}
}

func TestWordPressSettingsUpsert(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	wp := NewWordPressStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "wp@store.test") })

	u, err := users.Create("wp@store.test", "hunter2pass", "WP User")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	first, err := wp.Upsert(u.ID, "https://blog.example.com", "writer", "pass one")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second, err := wp.Upsert(u.ID, "https://blog.example.com", "writer", "pass two")
	if err != nil {
		t.Fatalf("Upsert (replace): %v", err)
	}
	if second.ID != first.ID {
		t.Error("upsert created a second row for the same user")
	}

	found, err := wp.FindByUser(u.ID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if found == nil || found.ApplicationPassword != "pass two" {
		t.Fatalf("settings = %+v, want replaced password", found)
	}
}

func TestKeywordAnalysisSaveAndList(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	keywords := NewKeywordStore(db)
	t.Cleanup(func() { cleanUsers(t, db, "kw@store.test") })

	u, err := users.Create("kw@store.test", "hunter2pass", "KW User")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	if _, err := keywords.Save(u.ID, "제주도 여행", []byte(`{"volume":"high"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := keywords.ListByUser(u.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].Keyword != "제주도 여행" {
		t.Fatalf("ListByUser = %+v", list)
	}
}
