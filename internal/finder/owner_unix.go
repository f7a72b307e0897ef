//go:build !windows
// +build !windows

package finder

import (
	"os"
	"syscall"
)

func fileOwnership(info os.FileInfo) (uid, gid uint32) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return 0, 0
	}
	return stat.Uid, stat.Gid
}
