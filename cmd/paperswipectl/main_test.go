package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
	"github.com/paperswipe/backend/pkg/config"
)

func seedDB(t *testing.T) string {
	t.Helper()
	url := "sqlite:///" + filepath.Join(t.TempDir(), "ctl.db")

	db, err := config.OpenDatabase(url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer (&config.DB{Gorm: db}).CloseDB()
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := &models.User{Email: "ada@example.com", HashedPassword: "x", IsActive: true}
	if err := repositories.NewGormUserRepository(db).CreateUser(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	paper := &models.SavedPaper{
		UserID:        user.ID,
		ArxivID:       "2301.00001v1",
		Title:         "Attention",
		Authors:       []string{"Ada Lovelace"},
		Abstract:      "A study.",
		Categories:    []string{"cs.LG"},
		PublishedDate: "2023-01-02T10:00:00Z",
		SourceURL:     "http://arxiv.org/abs/2301.00001v1",
		IsPublic:      true,
	}
	if err := repositories.NewGormSavedPaperRepository(db).CreateSavedPaper(paper); err != nil {
		t.Fatalf("create paper: %v", err)
	}
	return url
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUsersDeactivate(t *testing.T) {
	url := seedDB(t)

	out, err := run(t, "--database", url, "users", "deactivate", "ada@example.com")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if !strings.Contains(out, "deactivated") {
		t.Errorf("output = %q", out)
	}

	db, err := config.OpenDatabase(url)
	if err != nil {
		t.Fatal(err)
	}
	defer (&config.DB{Gorm: db}).CloseDB()
	user, err := repositories.NewGormUserRepository(db).GetUserByEmail("ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if user.IsActive {
		t.Error("user still active")
	}
}

func TestUsersUnknownEmail(t *testing.T) {
	url := seedDB(t)

	if _, err := run(t, "--database", url, "users", "activate", "nobody@example.com"); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestExport(t *testing.T) {
	url := seedDB(t)

	out, err := run(t, "--database", url, "export", "--email", "ada@example.com", "--format", "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "Title,Authors,Year,arXiv ID,Categories,URL,Notes") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, `"2301.00001v1"`) {
		t.Errorf("paper missing from output: %q", out)
	}
}

func TestExportErrors(t *testing.T) {
	url := seedDB(t)

	if _, err := run(t, "--database", url, "export", "--email", "ada@example.com", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := run(t, "--database", url, "export", "--email", "ada@example.com", "--tag", "missing"); err == nil {
		t.Error("expected error for empty tag")
	}
}

func TestExportRequiresEmail(t *testing.T) {
	url := seedDB(t)

	_, err := run(t, "--database", url, "export", "--format", "csv")
	if err == nil || !strings.Contains(err.Error(), "email") {
		t.Errorf("err = %v, want missing --email error", err)
	}
}
