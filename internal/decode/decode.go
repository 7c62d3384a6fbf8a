// Package decode finds QR codes and linear barcodes in still images.
package decode

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Result is one decoded symbol.
type Result struct {
	Text   string
	Format string
}

// ErrUnsupportedImage is returned for files the image registry cannot read.
var ErrUnsupportedImage = errors.New("decode: unsupported image")

// Extensions lists the file extensions the decoder can read.
var Extensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// IsImage reports whether path has a readable image extension.
func IsImage(path string) bool {
	_, ok := Extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Decoder runs a fixed chain of gozxing readers over an image.
type Decoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func New() *Decoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &Decoder{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
		},
		hints: hints,
	}
}

// DecodeImage opens the file at path and returns every symbol found, in
// reader order. An image without symbols yields an empty slice and no error.
func (d *Decoder) DecodeImage(ctx context.Context, path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, filepath.Base(path), err)
	}
	return d.Decode(ctx, img)
}

// Decode scans an already-loaded image.
func (d *Decoder) Decode(ctx context.Context, img image.Image) ([]Result, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}

	var out []Result
	for _, r := range d.readers {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := r.Decode(bmp, d.hints)
		// Readers report "nothing here" as an error; that is the common case.
		if err != nil || res == nil {
			continue
		}
		out = append(out, Result{
			Text:   res.GetText(),
			Format: res.GetBarcodeFormat().String(),
		})
	}
	return out, nil
}
