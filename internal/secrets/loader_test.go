package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecret(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	return path
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("CAREERKITSUNE_TEST_SECRET", "  from-env \n")
	file := writeSecret(t, "from-file\n")

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"file wins", Source{File: file, Env: "CAREERKITSUNE_TEST_SECRET", Value: "inline"}, "from-file"},
		{"env over value", Source{Env: "CAREERKITSUNE_TEST_SECRET", Value: "inline"}, "from-env"},
		{"unset env falls back to value", Source{Env: "CAREERKITSUNE_TEST_UNSET", Value: " inline "}, "inline"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Load(tc.src)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("Load = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(Source{Name: "gemini api key"})
	if !errors.Is(err, ErrNotConfigured) || !strings.Contains(err.Error(), "gemini api key") {
		t.Fatalf("expected named not-configured error, got %v", err)
	}

	_, err = Load(Source{File: writeSecret(t, "  \n")})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	_, err = Load(Source{File: filepath.Join(t.TempDir(), "missing")})
	if err == nil || errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	t.Parallel()

	got, err := LoadOptional(Source{})
	if err != nil || got != "" {
		t.Fatalf("expected empty secret, got %q, %v", got, err)
	}

	if _, err := LoadOptional(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected error for unreadable file")
	}
}
