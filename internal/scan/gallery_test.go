package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrscan/internal/decode"
)

func newGallery(t *testing.T, d *fakeDecoder) (*Gallery, *handlerFixture) {
	t.Helper()
	f := newHandlerFixture(t, time.Millisecond)
	return &Gallery{Decoder: d, Handler: f.handler, Presenter: f.presenter}, f
}

func TestScanFromGallery_Cancelled(t *testing.T) {
	d := &fakeDecoder{}
	g, f := newGallery(t, d)

	g.ScanFromGallery(context.Background(), PickedPath(""))
	assert.Empty(t, d.paths, "decoder must not run after a cancelled pick")
	assert.Empty(t, f.presenter.Notices())
	assert.Zero(t, f.handler.History.Len())
}

func TestScanFromGallery_NothingFound(t *testing.T) {
	g, f := newGallery(t, &fakeDecoder{})

	g.ScanFromGallery(context.Background(), PickedPath("/photos/cat.png"))
	assert.Equal(t, []string{NoticeNotFound}, f.presenter.Notices())
	assert.Zero(t, f.handler.History.Len())
}

func TestScanFromGallery_ForwardsFirstResult(t *testing.T) {
	d := &fakeDecoder{results: []decode.Result{
		{Text: "first", Format: "QR_CODE"},
		{Text: "second", Format: "EAN_13"},
	}}
	g, f := newGallery(t, d)

	g.ScanFromGallery(context.Background(), PickedPath("/photos/code.png"))
	assert.Equal(t, []string{"/photos/code.png"}, d.paths)
	assert.Equal(t, []string{"first"}, texts(f.handler.History.Records()))
	assert.Equal(t, []string{"first"}, f.clip.Writes())
}

func TestScanFromGallery_EmptyText(t *testing.T) {
	g, f := newGallery(t, &fakeDecoder{results: []decode.Result{{}}})

	g.ScanFromGallery(context.Background(), PickedPath("/photos/code.png"))
	require.Equal(t, 1, f.handler.History.Len())
	assert.Equal(t, "", f.handler.History.Records()[0].Text)
}

func TestScanFromGallery_Errors(t *testing.T) {
	tests := []struct {
		name    string
		decoder *fakeDecoder
		picker  ImagePicker
	}{
		{"decoder error", &fakeDecoder{err: errors.New("corrupt")}, PickedPath("/x.png")},
		{"decoder panic", &fakeDecoder{panics: true}, PickedPath("/x.png")},
		{"picker error", &fakeDecoder{}, errPicker{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, f := newGallery(t, tt.decoder)
			assert.NotPanics(t, func() {
				g.ScanFromGallery(context.Background(), tt.picker)
			})
			assert.Equal(t, []string{NoticeImageError}, f.presenter.Notices())
			assert.Zero(t, f.handler.History.Len())
		})
	}
}
