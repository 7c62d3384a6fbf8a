package scan

import (
	"context"
	"fmt"
	"log/slog"
)

// Gallery decodes a picked image and forwards the first symbol to Handler.
type Gallery struct {
	Decoder   Decoder
	Handler   *Handler
	Presenter Presenter
	Log       *slog.Logger
}

// ScanFromGallery runs one pick-decode-handle cycle. A cancelled pick is a
// no-op; every failure becomes a notice.
func (g *Gallery) ScanFromGallery(ctx context.Context, picker ImagePicker) {
	log := g.Log
	if log == nil {
		log = slog.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("gallery scan panicked", "panic", fmt.Sprint(r))
			g.notify(NoticeImageError)
		}
	}()

	path, ok, err := picker.Pick(ctx)
	if err != nil {
		log.Warn("pick image", "err", err)
		g.notify(NoticeImageError)
		return
	}
	if !ok {
		return
	}

	results, err := g.Decoder.DecodeImage(ctx, path)
	if err != nil {
		log.Warn("decode image", "path", path, "err", err)
		g.notify(NoticeImageError)
		return
	}
	if len(results) == 0 {
		log.Info("no symbol in image", "path", path)
		g.notify(NoticeNotFound)
		return
	}

	log.Info("decoded image", "path", path, "format", results[0].Format, "found", len(results))
	g.Handler.Handle(ctx, results[0].Text)
}

func (g *Gallery) notify(text string) {
	if g.Presenter != nil {
		g.Presenter.Notify(text)
	}
}
