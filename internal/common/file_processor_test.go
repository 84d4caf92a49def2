package common

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"resumescore/internal/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadFacts(t *testing.T) {
	fp := NewFileProcessor(nil)

	t.Run("valid facts file", func(t *testing.T) {
		path := writeTempFile(t, "facts.json", `{
			"skills": ["go", "python"],
			"contact": {"name": "A. Person", "email": "a@example.com"},
			"experience": [{"title": "Engineer", "startDate": "2020-01", "endDate": "2022-01"}]
		}`)

		facts, err := fp.LoadFacts(path, 0)
		if err != nil {
			t.Fatalf("LoadFacts() error = %v", err)
		}
		if len(facts.Skills) != 2 {
			t.Errorf("expected 2 skills, got %d", len(facts.Skills))
		}
		if facts.Contact.Email != "a@example.com" {
			t.Errorf("unexpected contact email %q", facts.Contact.Email)
		}
		if len(facts.Experience) != 1 {
			t.Errorf("expected 1 experience entry, got %d", len(facts.Experience))
		}
	})

	t.Run("all fields optional", func(t *testing.T) {
		path := writeTempFile(t, "empty.json", `{}`)

		facts, err := fp.LoadFacts(path, 0)
		if err != nil {
			t.Fatalf("LoadFacts() error = %v", err)
		}
		if facts == nil {
			t.Fatal("expected non-nil facts for empty document")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{"skills": [`)

		_, err := fp.LoadFacts(path, 0)
		if err == nil {
			t.Fatal("expected error for malformed JSON")
		}
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			t.Fatalf("expected AppError, got %T", err)
		}
		if appErr.Code != errors.ErrCodeInvalidFacts {
			t.Errorf("expected code %s, got %s", errors.ErrCodeInvalidFacts, appErr.Code)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := fp.LoadFacts(filepath.Join(t.TempDir(), "nope.json"), 0)
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("file above size limit", func(t *testing.T) {
		path := writeTempFile(t, "big.json", `{"skills": ["go", "python", "kubernetes"]}`)

		_, err := fp.LoadFacts(path, 10)
		if err == nil {
			t.Fatal("expected error for oversized file")
		}
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			t.Fatalf("expected AppError, got %T", err)
		}
		if appErr.Type != errors.ErrorTypeValidation {
			t.Errorf("expected validation error, got %s", appErr.Type)
		}
	})
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	fp := NewFileProcessor(nil)
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	if err := fp.WriteFile(path, `{"ok": true}`); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	if string(content) != `{"ok": true}` {
		t.Errorf("unexpected content %q", string(content))
	}
}
