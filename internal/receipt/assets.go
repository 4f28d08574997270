package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
)

// maxAssetSide bounds the pixel size of embedded images.
const maxAssetSide = 600

// LoadImage reads an image asset and re-encodes it as PNG. A missing file is
// not an error: it returns nil so the element is left out of the receipt.
func LoadImage(name, path string) (*Image, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("receipt: stat %s: %w", name, err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("receipt: decode %s: %w", name, err)
	}
	return EncodeImage(name, img)
}

// EncodeImage downsizes img to fit maxAssetSide and encodes it as an 8-bit PNG.
func EncodeImage(name string, img image.Image) (*Image, error) {
	b := img.Bounds()
	if b.Dx() > maxAssetSide || b.Dy() > maxAssetSide {
		img = imaging.Fit(img, maxAssetSide, maxAssetSide, imaging.Lanczos)
	} else {
		img = imaging.Clone(img)
	}
	b = img.Bounds()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("receipt: encode %s: %w", name, err)
	}
	return &Image{Name: name, Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// QREncoder turns a string into a scannable raster.
type QREncoder interface {
	Encode(content string) (*Image, error)
}

// QRCode encodes with skip2/go-qrcode at a fixed pixel size.
type QRCode struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// NewQRCode returns a medium recovery QR encoder.
func NewQRCode(size int) QRCode {
	if size <= 0 {
		size = 256
	}
	return QRCode{Size: size, Level: qrcode.Medium}
}

// Encode returns the QR code for content as an RGB PNG image.
func (q QRCode) Encode(content string) (*Image, error) {
	code, err := qrcode.New(content, q.Level)
	if err != nil {
		return nil, fmt.Errorf("receipt: qr encode: %w", err)
	}
	return EncodeImage("qr", code.Image(q.Size))
}
