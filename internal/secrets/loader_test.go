package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty key: %v", err)
	}

	tests := []struct {
		name          string
		src           Source
		want          string
		wantErr       string
		notConfigured bool
	}{
		{name: "inline value", src: Source{Name: "api key", Value: " inline "}, want: "inline"},
		{name: "file wins over value", src: Source{Name: "api key", Value: "inline", File: keyFile}, want: "from-file"},
		{name: "missing file", src: Source{Name: "api key", File: filepath.Join(dir, "nope")}, wantErr: "reading api key"},
		{name: "empty file", src: Source{Name: "api key", File: emptyFile}, wantErr: "is empty", notConfigured: true},
		{name: "nothing configured", src: Source{Name: "api key"}, wantErr: "secret is not configured: api key", notConfigured: true},
		{name: "hint", src: Source{Name: "api key", Hint: "set API_KEY"}, wantErr: "api key (set API_KEY)", notConfigured: true},
		{name: "default name", src: Source{}, wantErr: "not configured: secret", notConfigured: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if errors.Is(err, ErrNotConfigured) != tt.notConfigured {
					t.Fatalf("unexpected ErrNotConfigured match for %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
