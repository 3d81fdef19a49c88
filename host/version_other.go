//go:build !darwin && !freebsd && !linux && !windows

package host

func platformVersion() string { return "" }
