//go:build windows

package host

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func platformVersion() string {
	v := windows.RtlGetVersion()
	return fmt.Sprintf("Windows %d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber)
}
