//go:build windows

package changewallpaperlib

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows/registry"
)

type monitor struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

type Monitor struct {
	Width     int
	Height    int
	index     int
	path      string
	Wallpaper string
}

func (m *Monitor) name() string {
	return fmt.Sprintf("#%d", m.index)
}

// DesktopWallpaper does not extend IDispatch so this needs to be done manually
type IDesktopWallpaperVtbl struct {
	QueryInterface            uintptr
	AddRef                    uintptr
	Release                   uintptr
	SetWallpaper              uintptr
	GetWallpaper              uintptr
	GetMonitorDevicePathAt    uintptr
	GetMonitorDevicePathCount uintptr
	GetMonitorRECT            uintptr
	SetBackgroundColor        uintptr
	GetBackgroundColor        uintptr
	SetPosition               uintptr
	GetPosition               uintptr
	SetSlideshow              uintptr
	GetSlideshow              uintptr
	SetSlideshowOptions       uintptr
	GetSlideshowOptions       uintptr
	AdvanceSlideshow          uintptr
	GetStatus                 uintptr
	Enable                    uintptr
}

// Pulled from headers
const CLSID = "{C2CF3110-460E-4fc1-B9D0-8A1C0C9CC4BD}"
const IID = "{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}"

// Wallpapers aren't scaled ahead of time
const DWPOS_FILL = uintptr(4)

// Monitor is counted but isn't attached to the computer
const S_FALSE = uintptr(2147500037)

var modole32 = syscall.NewLazyDLL("ole32.dll")
var coTaskMemFree = modole32.NewProc("CoTaskMemFree")

// Be sure to call the returned function to release the instance
func desktopWallpaper() (*IDesktopWallpaperVtbl, *ole.IUnknown, func(), error) {
	err := ole.CoInitialize(0)
	if err != nil {
		return nil, nil, nil, err
	}

	desktop, err := ole.CreateInstance(
		ole.NewGUID(CLSID),
		ole.NewGUID(IID))
	if err != nil {
		ole.CoUninitialize()
		return nil, nil, nil, err
	}

	release := func() {
		desktop.Release()
		ole.CoUninitialize()
	}

	vtable := (*IDesktopWallpaperVtbl)(unsafe.Pointer(desktop.RawVTable))
	return vtable, desktop, release, nil
}

// The errno from a COM call is only meaningful when it is non-zero.
func unexpected(call string, hr uintptr, errno syscall.Errno) error {
	if errno != 0 {
		return fmt.Errorf("Unexpected value from %s %d: %w", call, hr, errno)
	}
	return fmt.Errorf("Unexpected value from %s %d", call, hr)
}

func GetMonitors() ([]*Monitor, error) {
	var monitors []*Monitor

	vtable, desktop, release, err := desktopWallpaper()
	if err != nil {
		return nil, err
	}
	defer release()

	var count uint32

	hr, _, errno := syscall.Syscall(
		vtable.GetMonitorDevicePathCount,
		2,
		uintptr(unsafe.Pointer(desktop)),
		uintptr(unsafe.Pointer(&count)),
		0)
	if hr != 0 {
		return nil, unexpected("GetMonitorDevicePathCount", hr, errno)
	}

	for i := uint32(0); i < count; i++ {
		var pathOut *[1 << 30]uint16

		hr, _, errno = syscall.Syscall(
			vtable.GetMonitorDevicePathAt,
			3,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(i),
			uintptr(unsafe.Pointer(&pathOut)))
		if hr != 0 {
			return nil, unexpected("GetMonitorDevicePathAt", hr, errno)
		}

		m := monitor{}
		rectHR, _, errno := syscall.Syscall(
			vtable.GetMonitorRECT,
			3,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(unsafe.Pointer(pathOut)),
			uintptr(unsafe.Pointer(&m)))
		if (rectHR != 0 && rectHR != S_FALSE) || errno != 0 {
			return nil, unexpected("GetMonitorRECT", rectHR, errno)
		}
		// Copy out so the memory allocated by COM can be freed immediately
		path := syscall.UTF16ToString(pathOut[:])

		freed, _, errno := syscall.Syscall(
			coTaskMemFree.Addr(),
			1,
			uintptr(unsafe.Pointer(pathOut)),
			0,
			0)
		if errno != 0 {
			return nil, unexpected("CoTaskMemFree", freed, errno)
		}

		if rectHR == S_FALSE {
			continue
		}

		monitors = append(monitors, &Monitor{
			Width:  int(m.right - m.left),
			Height: int(m.bottom - m.top),
			index:  int(i),
			path:   path})
	}

	return monitors, nil
}

func setMonitorWallpaper(m *Monitor, wallpaper string) error {
	err := setRegistryKeys()
	if err != nil {
		return err
	}

	vtable, desktop, release, err := desktopWallpaper()
	if err != nil {
		return err
	}
	defer release()

	hr, _, _ := syscall.Syscall(
		vtable.SetPosition,
		2,
		uintptr(unsafe.Pointer(desktop)),
		DWPOS_FILL,
		0)
	if hr != 0 {
		return unexpected("SetPosition", hr, 0)
	}

	hr, _, _ = syscall.Syscall(
		vtable.SetWallpaper,
		3,
		uintptr(unsafe.Pointer(desktop)),
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(m.path))),
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(wallpaper))))
	if hr != 0 {
		return unexpected("SetWallpaper", hr, 0)
	}

	m.Wallpaper = wallpaper
	return nil
}

// IDesktopWallpaper applies each wallpaper immediately
func commitWallpapers(monitors []*Monitor) error {
	return nil
}

func setRegistryKeys() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\Desktop`, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	return k.SetDWordValue("JPEGImportQuality", 100)
}

func CheckIfLocked() (bool, error) {
	userLib := syscall.NewLazyDLL("user32.dll")
	openInputDesktop := userLib.NewProc("OpenInputDesktop")
	closeDesktop := userLib.NewProc("CloseDesktop")

	desktop, _, _ := openInputDesktop.Call(0,
		0,
		0)
	if desktop == 0 {
		// Failure here means that the user is on a desktop we cannot access
		// That is overwhelmingly likely to be the lock screen
		return true, nil
	}
	ret, _, _ := closeDesktop.Call(desktop)
	if ret == 0 {
		// If we can open the desktop, not being able to close it is a problem.
		return true, errors.New("Failed to close desktop handle")
	}

	return false, nil
}

const ATTACH_PARENT_PROCESS = uintptr(^uint32(0)) // (DWORD)-1

var modkernel32 = syscall.NewLazyDLL("kernel32.dll")
var procAttachConsole = modkernel32.NewProc("AttachConsole")

// Attempts to attach to the parent console if one exists so we can get stdout
// Note that it's impossible to properly redirect stdin
// See https://stackoverflow.com/questions/23743217/
func AttachParentConsole() {
	r, _, _ :=
		syscall.Syscall(procAttachConsole.Addr(), 1, ATTACH_PARENT_PROCESS, 0, 0)

	if r == 0 {
		return
	}

	hout, err := syscall.GetStdHandle(syscall.STD_OUTPUT_HANDLE)
	if err != nil {
		return
	}
	herr, err := syscall.GetStdHandle(syscall.STD_ERROR_HANDLE)
	if err != nil {
		return
	}

	os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
}
