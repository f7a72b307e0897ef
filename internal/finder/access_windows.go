//go:build windows
// +build windows

package finder

import (
	"os"
	"path/filepath"
	"strings"
)

// Windows has no faccessat; approximate with the mode bits and, for
// execute, the conventional extensions.
func checkAccess(path string, at AccessType) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if at&AccessWrite != 0 && info.Mode().Perm()&0200 == 0 {
		return false
	}
	if at&AccessExecute != 0 {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".exe", ".bat", ".cmd", ".com":
		default:
			return false
		}
	}
	return true
}
