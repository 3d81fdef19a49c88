//go:build darwin || freebsd || linux

package host

import (
	"golang.org/x/sys/unix"
)

func platformVersion() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Sysname[:]) + " " + unix.ByteSliceToString(u.Release[:])
}
