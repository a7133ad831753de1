//go:build darwin

package cursor

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit

#include <stdlib.h>
#include <string.h>
#import <AppKit/AppKit.h>

typedef struct {
	void   *bytes;
	size_t  length;
	double  hotspot_x;
	double  hotspot_y;
} SystemCursorData;

// copy_system_cursor fills out with the TIFF representation of the
// current system cursor and its hotspot normalized to the image size.
// Returns 0 on success; the caller owns out->bytes and must free() it.
static int copy_system_cursor(SystemCursorData *out) {
	@autoreleasepool {
		NSCursor *cursor = [NSCursor currentSystemCursor];
		if (cursor == nil) {
			return 1;
		}

		NSImage *image = [cursor image];
		if (image == nil) {
			return 1;
		}

		NSSize size = [image size];
		if (size.width <= 0 || size.height <= 0) {
			return 1;
		}

		NSData *tiff = [image TIFFRepresentation];
		if (tiff == nil || [tiff length] == 0) {
			return 1;
		}

		void *copy = malloc([tiff length]);
		if (copy == NULL) {
			return 1;
		}
		memcpy(copy, [tiff bytes], [tiff length]);

		NSPoint hotspot = [cursor hotSpot];
		out->bytes = copy;
		out->length = [tiff length];
		out->hotspot_x = hotspot.x / size.width;
		out->hotspot_y = hotspot.y / size.height;
		return 0;
	}
}
*/
import "C"

// systemProvider reads the current AppKit system cursor.
type systemProvider struct{}

// NewSystemProvider returns the cursor provider for this platform.
func NewSystemProvider() Provider { return systemProvider{} }

func (systemProvider) Capture() (*Image, bool) {
	var data C.SystemCursorData
	if C.copy_system_cursor(&data) != 0 {
		return nil, false
	}
	defer C.free(data.bytes)

	return &Image{
		Data: C.GoBytes(data.bytes, C.int(data.length)),
		Hotspot: XY{
			X: float64(data.hotspot_x),
			Y: float64(data.hotspot_y),
		},
	}, true
}
