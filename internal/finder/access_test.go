package finder

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseAccessType(t *testing.T) {
	tests := []struct {
		input   string
		want    AccessType
		wantErr bool
	}{
		{"r", AccessRead, false},
		{"w", AccessWrite, false},
		{"x", AccessExecute, false},
		{"rw", AccessRead | AccessWrite, false},
		{"RWX", AccessRead | AccessWrite | AccessExecute, false},
		{"xr", AccessExecute | AccessRead, false},
		{"", 0, true},
		{"q", 0, true},
		{"rq", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAccessType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAccessType(%q): expected an error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAccessType(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAccessType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAccessTypeString(t *testing.T) {
	tests := []struct {
		at   AccessType
		want string
	}{
		{AccessRead, "r"},
		{AccessWrite, "w"},
		{AccessExecute, "x"},
		{AccessRead | AccessExecute, "rx"},
		{AccessRead | AccessWrite | AccessExecute, "rwx"},
		{0, ""},
	}

	for _, tt := range tests {
		if got := tt.at.String(); got != tt.want {
			t.Errorf("AccessType(%d).String() = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestCheckAccess(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if !CheckAccess(path, AccessRead) {
		t.Error("Expected read access to an owned 0644 file")
	}
	if CheckAccess(path, 0) {
		t.Error("Expected an empty mask to never pass")
	}
	if CheckAccess(filepath.Join(tmpDir, "missing"), AccessRead) {
		t.Error("Expected no access to a missing file")
	}
	if os.Geteuid() != 0 && CheckAccess(path, AccessExecute) {
		t.Error("Expected no execute access to a 0644 file")
	}
}
