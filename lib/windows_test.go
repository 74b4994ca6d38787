//go:build windows

package changewallpaperlib

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnexpectedReportsErrno(t *testing.T) {
	err := unexpected("CoTaskMemFree", 0, syscall.ERROR_ACCESS_DENIED)
	assert.ErrorIs(t, err, syscall.ERROR_ACCESS_DENIED)
	assert.Contains(t, err.Error(), "CoTaskMemFree")
	assert.Contains(t, err.Error(), syscall.ERROR_ACCESS_DENIED.Error())

	err = unexpected("SetWallpaper", 0x80070057, 0)
	assert.Equal(t, "Unexpected value from SetWallpaper 2147942487", err.Error())
}
