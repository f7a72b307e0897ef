//go:build !windows
// +build !windows

package finder

import "golang.org/x/sys/unix"

func checkAccess(path string, at AccessType) bool {
	var mode uint32
	if at&AccessRead != 0 {
		mode |= unix.R_OK
	}
	if at&AccessWrite != 0 {
		mode |= unix.W_OK
	}
	if at&AccessExecute != 0 {
		mode |= unix.X_OK
	}
	return unix.Access(path, mode) == nil
}
