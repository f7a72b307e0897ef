package finder

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTree creates the given files (content is the base name) under dir.
func writeTree(t *testing.T, dir string, paths []string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(full, []byte(filepath.Base(p)), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

// checkSum verifies that every candidate landed in exactly one bucket.
func checkSum(t *testing.T, r *Result) {
	t.Helper()
	sum := r.ReturnedFiles + r.ExcludedFiles + r.AccessDeniedFiles + r.ErrorsFound
	if r.TotalFiles != sum {
		t.Errorf("Counter sum mismatch: total=%d, returned+excluded+denied+errors=%d",
			r.TotalFiles, sum)
	}
	if len(r.Files) != r.ReturnedFiles {
		t.Errorf("Expected %d file records, got %d", r.ReturnedFiles, len(r.Files))
	}
}

func TestGetFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"a.txt",
		"b.log",
		"c.go",
		"sub/d.txt",
		"sub/deeper/e.txt",
	})

	tests := []struct {
		name     string
		opts     Options
		returned int
		excluded int
		depth    int
	}{
		{
			name:     "all files",
			opts:     Options{},
			returned: 5,
			excluded: 0,
			depth:    2,
		},
		{
			name:     "include txt",
			opts:     Options{IncludePattern: "*.txt"},
			returned: 3,
			excluded: 2,
			depth:    2,
		},
		{
			name:     "include txt exclude d",
			opts:     Options{IncludePattern: "*.txt", ExcludePatterns: []string{"d*"}},
			returned: 2,
			excluded: 3,
			depth:    2,
		},
		{
			name:     "depth bound",
			opts:     Options{MaxDepth: 1},
			returned: 4,
			excluded: 0,
			depth:    1,
		},
		{
			name:     "exclude everything",
			opts:     Options{ExcludePatterns: []string{"*"}},
			returned: 0,
			excluded: 5,
			depth:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := GetFiles(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("GetFiles failed: %v", err)
			}
			checkSum(t, res)
			if res.ReturnedFiles != tt.returned {
				t.Errorf("Expected %d returned files, got %d", tt.returned, res.ReturnedFiles)
			}
			if res.ExcludedFiles != tt.excluded {
				t.Errorf("Expected %d excluded files, got %d", tt.excluded, res.ExcludedFiles)
			}
			if res.ActualDepth != tt.depth {
				t.Errorf("Expected actual depth %d, got %d", tt.depth, res.ActualDepth)
			}
			if tt.opts.MaxDepth > 0 && res.ActualDepth > tt.opts.MaxDepth {
				t.Errorf("Actual depth %d exceeds max depth %d", res.ActualDepth, tt.opts.MaxDepth)
			}
		})
	}
}

func TestGetFilesSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"only.txt"})

	res, err := GetFiles(filepath.Join(tmpDir, "only.txt"), Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	if res.TotalFiles != 1 || res.ReturnedFiles != 1 {
		t.Errorf("Expected a single returned file, got total=%d returned=%d",
			res.TotalFiles, res.ReturnedFiles)
	}
	if res.Files[0].Name != "only.txt" {
		t.Errorf("Expected file name only.txt, got %s", res.Files[0].Name)
	}
}

func TestGetFilesEmptyDirectory(t *testing.T) {
	res, err := GetFiles(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	if res.TotalFiles != 0 {
		t.Errorf("Expected zero candidates in empty directory, got %d", res.TotalFiles)
	}
	if res.Files == nil {
		t.Error("Expected a non-nil empty file list")
	}
	if res.ActualDepth != 0 {
		t.Errorf("Expected actual depth 0, got %d", res.ActualDepth)
	}
}

func TestGetFilesInvalidArguments(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := GetFiles(tmpDir, Options{MaxDepth: -1}); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("Expected ErrInvalidDepth, got %v", err)
	}
	if _, err := GetFiles(tmpDir, Options{IncludePattern: "[a-"}); err == nil {
		t.Error("Expected an error for a malformed include pattern")
	}
	if _, err := GetFiles(tmpDir, Options{ExcludePatterns: []string{"[a-"}}); err == nil {
		t.Error("Expected an error for a malformed exclude pattern")
	}
	if _, err := GetFiles(filepath.Join(tmpDir, "missing"), Options{}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
}

func TestGetFilesSymlinkNotFollowed(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"target/inner.txt"})
	if err := os.Symlink(filepath.Join(tmpDir, "target"), filepath.Join(tmpDir, "link")); err != nil {
		t.Skipf("Cannot create symlink: %v", err)
	}

	res, err := GetFiles(tmpDir, Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	// inner.txt plus the symlink reported as an entry in its own right.
	if res.TotalFiles != 2 {
		t.Errorf("Expected 2 candidates, got %d", res.TotalFiles)
	}
	var sawLink bool
	for _, f := range res.Files {
		if f.Name == "link" {
			sawLink = true
			if f.RealPath == f.Path {
				t.Error("Expected the symlink's real path to differ from its path")
			}
		}
	}
	if !sawLink {
		t.Error("Expected the unfollowed symlink to appear as a file entry")
	}
}

func TestGetFilesSymlinkFollowed(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"target/inner.txt"})
	if err := os.Symlink(filepath.Join(tmpDir, "target"), filepath.Join(tmpDir, "link")); err != nil {
		t.Skipf("Cannot create symlink: %v", err)
	}

	res, err := GetFiles(tmpDir, Options{FollowSymlinks: true})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	// target/inner.txt is reachable twice; the cycle guard keeps the walk
	// from descending the aliased directory a second time.
	if res.TotalFiles != 1+res.ErrorsFound {
		t.Errorf("Expected one file plus %d guard hits, got total=%d",
			res.ErrorsFound, res.TotalFiles)
	}
}

func TestGetFilesSymlinkCycleTerminates(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"dir/a.txt"})
	if err := os.Symlink(tmpDir, filepath.Join(tmpDir, "dir", "loop")); err != nil {
		t.Skipf("Cannot create symlink: %v", err)
	}

	res, err := GetFiles(tmpDir, Options{FollowSymlinks: true})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	if res.ReturnedFiles != 1 {
		t.Errorf("Expected 1 returned file, got %d", res.ReturnedFiles)
	}
	if res.ErrorsFound != 1 {
		t.Errorf("Expected the cycle to be recorded once, got %d errors", res.ErrorsFound)
	}
}

func TestGetFilesAccessDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("Running as root, permission checks are meaningless")
	}
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"open.txt", "closed.txt"})
	if err := os.Chmod(filepath.Join(tmpDir, "closed.txt"), 0000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	t.Cleanup(func() {
		os.Chmod(filepath.Join(tmpDir, "closed.txt"), 0644)
	})

	res, err := GetFiles(tmpDir, Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	if res.AccessDeniedFiles != 1 {
		t.Errorf("Expected 1 access-denied file, got %d", res.AccessDeniedFiles)
	}
	if res.ReturnedFiles != 1 {
		t.Errorf("Expected 1 returned file, got %d", res.ReturnedFiles)
	}
}

func TestGetFilesUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("Running as root, permission checks are meaningless")
	}
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"ok.txt", "sealed/hidden.txt"})
	if err := os.Chmod(filepath.Join(tmpDir, "sealed"), 0000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	t.Cleanup(func() {
		os.Chmod(filepath.Join(tmpDir, "sealed"), 0755)
	})

	res, err := GetFiles(tmpDir, Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	if res.ErrorsFound != 1 {
		t.Errorf("Expected the unreadable directory to count as 1 error, got %d", res.ErrorsFound)
	}
	if res.ReturnedFiles != 1 {
		t.Errorf("Expected 1 returned file, got %d", res.ReturnedFiles)
	}
}

func TestGetFilesDeterministic(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"z.txt", "a.txt", "m/n.txt", "b/c.txt", "b/a/d.txt",
	})

	first, err := GetFiles(tmpDir, Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	second, err := GetFiles(tmpDir, Options{})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected repeated runs over an unmodified tree to be identical")
	}
	if len(first.Files) > 1 && first.Files[0].Name != "a.txt" {
		t.Errorf("Expected sorted order starting with a.txt, got %s", first.Files[0].Name)
	}
}

func TestGetFilesWriteAccess(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("Running as root, permission checks are meaningless")
	}
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"rw.txt", "ro.txt"})
	if err := os.Chmod(filepath.Join(tmpDir, "ro.txt"), 0444); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}

	res, err := GetFiles(tmpDir, Options{Access: AccessRead | AccessWrite})
	if err != nil {
		t.Fatalf("GetFiles failed: %v", err)
	}
	checkSum(t, res)
	if res.ReturnedFiles != 1 || res.AccessDeniedFiles != 1 {
		t.Errorf("Expected rw.txt returned and ro.txt denied, got returned=%d denied=%d",
			res.ReturnedFiles, res.AccessDeniedFiles)
	}
}
