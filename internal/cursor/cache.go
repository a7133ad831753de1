package cursor

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"

	// The darwin provider hands back TIFF data and some themes ship BMP
	// cursors, so register both decoders alongside the stdlib PNG one.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Cache assigns a small integer identity to every distinct cursor bitmap
// seen during a session, keyed by a content fingerprint of the raw
// bytes. Each new appearance is written to the output directory exactly
// once, as cursor_<id>.png in RGBA regardless of source encoding.
//
// The cache is owned by the sampling loop and is not safe for
// concurrent use; ownership transfers to the caller at stop time.
type Cache struct {
	dir     string
	cursors Cursors
	nextID  uint32
}

// NewCache seeds a cache with entries from a prior recording segment so
// identities stay stable across segment boundaries. prev may be nil.
func NewCache(dir string, prev Cursors, nextID uint32) *Cache {
	if prev == nil {
		prev = Cursors{}
	}
	return &Cache{dir: dir, cursors: prev, nextID: nextID}
}

// Fingerprint returns the 64-bit content digest used as the cache key.
// Exact collisions map two bitmaps to one cursor; with FNV-1a over full
// bitmap bytes that risk is accepted rather than handled.
func Fingerprint(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

// Resolve maps captured bitmap bytes to a cursor identity. A previously
// seen fingerprint returns its existing identity. A new fingerprint is
// decoded, normalized and persisted before the next identity is
// assigned; if decode or persist fails the sample yields ok=false and
// no identity is consumed.
func (c *Cache) Resolve(img *Image) (string, bool) {
	fp := Fingerprint(img.Data)
	if existing, ok := c.cursors[fp]; ok {
		return strconv.FormatUint(uint64(existing.ID), 10), true
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return "", false
	}

	b := decoded.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), decoded, b.Min, draw.Src)

	fileName := fmt.Sprintf("cursor_%d.png", c.nextID)
	if err := writePNG(filepath.Join(c.dir, fileName), rgba); err != nil {
		log.Printf("Failed to save cursor image %s: %v", fileName, err)
		return "", false
	}

	id := c.nextID
	c.cursors[fp] = Cursor{
		ID:       id,
		FileName: fileName,
		Hotspot:  img.Hotspot,
	}
	c.nextID++

	return strconv.FormatUint(uint64(id), 10), true
}

// Snapshot returns the accumulated cursors and the next identity, for
// the one-shot handoff at stop time.
func (c *Cache) Snapshot() (Cursors, uint32) {
	return c.cursors, c.nextID
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
