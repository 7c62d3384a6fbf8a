package scan

import (
	"context"
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"qrscan/internal/decode"
)

// Clipboard receives copied scan text.
type Clipboard interface {
	WriteText(text string) error
}

// Launcher hands an address to the system's default handler.
type Launcher interface {
	CanLaunch(target string) bool
	Launch(ctx context.Context, target string) error
}

// Presenter is the presentation layer as seen from the handlers.
type Presenter interface {
	ShowResult(r Record)
	Notify(text string)
}

// ImagePicker yields an image path. ok is false when the user cancelled.
type ImagePicker interface {
	Pick(ctx context.Context) (path string, ok bool, err error)
}

// Decoder finds barcodes in an image file.
type Decoder interface {
	DecodeImage(ctx context.Context, path string) ([]decode.Result, error)
}

// PickedPath is an ImagePicker for a path chosen elsewhere. The empty
// string means cancelled.
type PickedPath string

func (p PickedPath) Pick(context.Context) (string, bool, error) {
	return string(p), p != "", nil
}

// SystemClipboard writes through atotto/clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	return clipboard.WriteAll(text)
}

// BrowserLauncher opens addresses with pkg/browser.
type BrowserLauncher struct{}

// CanLaunch requires an absolute address with a scheme.
func (BrowserLauncher) CanLaunch(target string) bool {
	u, err := url.Parse(target)
	return err == nil && u.Scheme != ""
}

func (BrowserLauncher) Launch(_ context.Context, target string) error {
	return browser.OpenURL(target)
}
