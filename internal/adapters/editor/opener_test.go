package editor

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpener_Command(t *testing.T) {
	invoice := filepath.Join(t.TempDir(), "ada-1.txt")
	if err := os.WriteFile(invoice, []byte("invoice"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		env      map[string]string
		onPath   map[string]string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "EDITOR with flags",
			env:      map[string]string{"EDITOR": "code -w", "VISUAL": "vim"},
			wantArgs: []string{"code", "-w", invoice},
		},
		{
			name:     "VISUAL fallback",
			env:      map[string]string{"VISUAL": "emacs"},
			wantArgs: []string{"emacs", invoice},
		},
		{
			name:     "editor on PATH",
			onPath:   map[string]string{"vi": "/usr/bin/vi"},
			wantArgs: []string{"/usr/bin/vi", invoice},
		},
		{
			name:    "no editor",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{
				getenv: func(k string) string { return tt.env[k] },
				lookPath: func(name string) (string, error) {
					if p, ok := tt.onPath[name]; ok {
						return p, nil
					}
					return "", errors.New("not found")
				},
			}

			cmd, err := o.Command(invoice)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("Args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestOpener_CommandMissingFile(t *testing.T) {
	o := &Opener{getenv: func(string) string { return "vi" }}

	if _, err := o.Command(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for a missing invoice")
	}
}
