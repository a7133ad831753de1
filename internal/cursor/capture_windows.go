//go:build windows

package cursor

import (
	"bytes"
	"image"
	"image/png"
	"syscall"
	"unsafe"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")
	gdi32  = syscall.NewLazyDLL("gdi32.dll")

	procGetCursorInfo = user32.NewProc("GetCursorInfo")
	procGetIconInfo   = user32.NewProc("GetIconInfo")
	procGetDC         = user32.NewProc("GetDC")
	procReleaseDC     = user32.NewProc("ReleaseDC")

	procGetObject          = gdi32.NewProc("GetObjectW")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
)

const (
	srcCopy      = 0x00CC0020
	dibRGBColors = 0
)

type winPoint struct {
	x, y int32
}

type winCursorInfo struct {
	cbSize      uint32
	flags       uint32
	hCursor     uintptr
	ptScreenPos winPoint
}

type winIconInfo struct {
	fIcon    int32
	xHotspot uint32
	yHotspot uint32
	hbmMask  uintptr
	hbmColor uintptr
}

type winBitmap struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

type winBitmapInfoHeader struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

type winBitmapInfo struct {
	bmiHeader winBitmapInfoHeader
	bmiColors [1]uint32
}

// systemProvider renders the current Win32 cursor into an off-screen
// DIB and encodes it as PNG.
type systemProvider struct{}

// NewSystemProvider returns the cursor provider for this platform.
func NewSystemProvider() Provider { return systemProvider{} }

func (systemProvider) Capture() (*Image, bool) {
	info := winCursorInfo{cbSize: uint32(unsafe.Sizeof(winCursorInfo{}))}
	if ret, _, _ := procGetCursorInfo.Call(uintptr(unsafe.Pointer(&info))); ret == 0 {
		return nil, false
	}
	if info.hCursor == 0 {
		return nil, false
	}

	var icon winIconInfo
	if ret, _, _ := procGetIconInfo.Call(info.hCursor, uintptr(unsafe.Pointer(&icon))); ret == 0 {
		return nil, false
	}
	defer procDeleteObject.Call(icon.hbmColor)
	defer procDeleteObject.Call(icon.hbmMask)

	var bm winBitmap
	if ret, _, _ := procGetObject.Call(icon.hbmColor, unsafe.Sizeof(bm), uintptr(unsafe.Pointer(&bm))); ret == 0 {
		return nil, false
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, false
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return nil, false
	}
	defer procDeleteDC.Call(memDC)

	bi := winBitmapInfo{
		bmiHeader: winBitmapInfoHeader{
			biSize:     uint32(unsafe.Sizeof(winBitmapInfoHeader{})),
			biWidth:    bm.bmWidth,
			biHeight:   -bm.bmHeight, // top-down bitmap
			biPlanes:   1,
			biBitCount: 32,
		},
	}

	var bits unsafe.Pointer
	dib, _, _ := procCreateDIBSection.Call(
		memDC,
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&bits)),
		0,
		0,
	)
	if dib == 0 || bits == nil {
		return nil, false
	}
	defer procDeleteObject.Call(dib)

	old, _, _ := procSelectObject.Call(memDC, dib)
	defer procSelectObject.Call(memDC, old)

	if ret, _, _ := procBitBlt.Call(
		memDC, 0, 0, uintptr(bm.bmWidth), uintptr(bm.bmHeight),
		screenDC, uintptr(info.ptScreenPos.x), uintptr(info.ptScreenPos.y),
		srcCopy,
	); ret == 0 {
		return nil, false
	}

	size := int(bm.bmWidth) * int(bm.bmHeight) * 4
	pixels := make([]byte, size)
	copy(pixels, unsafe.Slice((*byte)(bits), size))

	rgba := &image.RGBA{
		Pix:    pixels,
		Stride: int(bm.bmWidth) * 4,
		Rect:   image.Rect(0, 0, int(bm.bmWidth), int(bm.bmHeight)),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, false
	}

	return &Image{Data: buf.Bytes()}, true
}
