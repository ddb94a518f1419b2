package camera

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

type fakeFeed struct {
	frame    image.Image
	frameErr error
	width    int
	height   int
	stops    int
}

func (f *fakeFeed) Frame() (image.Image, error) { return f.frame, f.frameErr }
func (f *fakeFeed) Resolution() (int, int)      { return f.width, f.height }
func (f *fakeFeed) Stop()                       { f.stops++ }

type fakeDevice struct {
	feed    *fakeFeed
	openErr error
	opens   int
}

func (d *fakeDevice) Open(ctx context.Context) (Feed, error) {
	d.opens++
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.feed, nil
}

type fakeCodec struct {
	snapshots    []string // returned in order per SnapshotDataURL call
	snapshotErr  error
	compressed   string
	compressErr  error
	snapshotDims [][2]int
}

func (c *fakeCodec) SnapshotDataURL(_ context.Context, _ image.Image, width, height int, _ float64) (string, error) {
	c.snapshotDims = append(c.snapshotDims, [2]int{width, height})
	if c.snapshotErr != nil {
		return "", c.snapshotErr
	}

	shot := "data:image/jpeg;base64,snapshot"
	if len(c.snapshots) > 0 {
		shot = c.snapshots[0]
		c.snapshots = c.snapshots[1:]
	}
	return shot, nil
}

func (c *fakeCodec) CompressDataURL(_ context.Context, dataURL string, _ int, _ float64) (string, error) {
	if c.compressErr != nil {
		return "", c.compressErr
	}
	if c.compressed != "" {
		return c.compressed, nil
	}
	return dataURL, nil
}

type recordingHooks struct {
	events []string
}

func (h *recordingHooks) ModalOpened() { h.events = append(h.events, "opened") }
func (h *recordingHooks) FrameFrozen() { h.events = append(h.events, "frozen") }
func (h *recordingHooks) ModalClosed() { h.events = append(h.events, "closed") }

func newTestSession(device Device, codec *fakeCodec, hooks Hooks) *Session {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return NewSession(device, codec, hooks, logger.New("error"), 1280, 0.8)
}

func TestSession_OpenFailureReleasesModal(t *testing.T) {
	device := &fakeDevice{openErr: errors.New("permission denied")}
	hooks := &recordingHooks{}
	s := newTestSession(device, &fakeCodec{}, hooks)

	err := s.Open(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateClosed {
		t.Errorf("expected Closed after failed open, got %v", s.State())
	}

	want := []string{"opened", "closed"}
	if len(hooks.events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, hooks.events)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], hooks.events[i])
		}
	}
}

func TestSession_CaptureBeforeOpen(t *testing.T) {
	s := newTestSession(&fakeDevice{feed: &fakeFeed{}}, &fakeCodec{}, nil)

	err := s.Capture(context.Background())
	if !errors.Is(err, errs.ErrCameraNotOpen) {
		t.Fatalf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestSession_AcceptClosesAndReleasesFeed(t *testing.T) {
	feed := &fakeFeed{frame: image.NewRGBA(image.Rect(0, 0, 10, 10)), width: 640, height: 480}
	codec := &fakeCodec{compressed: "data:image/jpeg;base64,final"}
	hooks := &recordingHooks{}
	s := newTestSession(&fakeDevice{feed: feed}, codec, hooks)

	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Capture(ctx); err != nil {
		t.Fatalf("capture: %v", err)
	}

	photo, err := s.Accept(ctx)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if photo != "data:image/jpeg;base64,final" {
		t.Errorf("unexpected photo %q", photo)
	}
	if s.State() != StateClosed {
		t.Errorf("expected Closed after accept, got %v", s.State())
	}
	if feed.stops != 1 {
		t.Errorf("expected feed stopped once, got %d", feed.stops)
	}

	want := []string{"opened", "frozen", "closed"}
	for i := range want {
		if i >= len(hooks.events) || hooks.events[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, hooks.events)
		}
	}

	// snapshot rendered at the feed's native resolution
	if len(codec.snapshotDims) != 1 || codec.snapshotDims[0] != [2]int{640, 480} {
		t.Errorf("expected snapshot at 640x480, got %v", codec.snapshotDims)
	}
}

func TestSession_SnapshotFallbackResolution(t *testing.T) {
	feed := &fakeFeed{frame: image.NewRGBA(image.Rect(0, 0, 10, 10))}
	codec := &fakeCodec{}
	s := newTestSession(&fakeDevice{feed: feed}, codec, nil)

	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Capture(ctx); err != nil {
		t.Fatalf("capture: %v", err)
	}

	if len(codec.snapshotDims) != 1 || codec.snapshotDims[0] != [2]int{1280, 720} {
		t.Errorf("expected fallback 1280x720, got %v", codec.snapshotDims)
	}
}

func TestSession_RecaptureReplacesFrame(t *testing.T) {
	feed := &fakeFeed{frame: image.NewRGBA(image.Rect(0, 0, 10, 10)), width: 640, height: 480}
	codec := &fakeCodec{snapshots: []string{
		"data:image/jpeg;base64,first",
		"data:image/jpeg;base64,second",
	}}
	s := newTestSession(&fakeDevice{feed: feed}, codec, nil)

	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Capture(ctx); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if err := s.Capture(ctx); err != nil {
		t.Fatalf("second capture: %v", err)
	}

	photo, err := s.Accept(ctx)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if photo != "data:image/jpeg;base64,second" {
		t.Errorf("expected the replaced frame, got %q", photo)
	}
	if feed.stops == 0 {
		t.Error("expected feed released")
	}
}

func TestSession_AcceptWithoutCapture(t *testing.T) {
	s := newTestSession(&fakeDevice{feed: &fakeFeed{frame: image.NewRGBA(image.Rect(0, 0, 1, 1))}}, &fakeCodec{}, nil)

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := s.Accept(context.Background())
	if !errors.Is(err, errs.ErrNoCapturedFrame) {
		t.Fatalf("expected ErrNoCapturedFrame, got %v", err)
	}
}

func TestSession_AcceptFallsBackOnCodecFailure(t *testing.T) {
	feed := &fakeFeed{frame: image.NewRGBA(image.Rect(0, 0, 10, 10)), width: 640, height: 480}
	codec := &fakeCodec{
		snapshots:   []string{"data:image/jpeg;base64,raw"},
		compressErr: errors.New("broken encoder"),
	}
	s := newTestSession(&fakeDevice{feed: feed}, codec, nil)

	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Capture(ctx); err != nil {
		t.Fatalf("capture: %v", err)
	}

	photo, err := s.Accept(ctx)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if photo != "data:image/jpeg;base64,raw" {
		t.Errorf("expected raw snapshot fallback, got %q", photo)
	}
	if s.State() != StateClosed {
		t.Errorf("expected Closed, got %v", s.State())
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	feed := &fakeFeed{frame: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	hooks := &recordingHooks{}
	s := newTestSession(&fakeDevice{feed: feed}, &fakeCodec{}, hooks)

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	s.Close()
	s.Close()

	if feed.stops != 1 {
		t.Errorf("expected feed stopped once, got %d", feed.stops)
	}

	closed := 0
	for _, e := range hooks.events {
		if e == "closed" {
			closed++
		}
	}
	if closed != 1 {
		t.Errorf("expected one closed event, got %d", closed)
	}
}
