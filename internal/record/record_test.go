package record

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeEncoder struct {
	mu       sync.Mutex
	out      bytes.Buffer
	started  int
	closed   bool
	killed   bool
	waited   bool
	startErr error
	waitErr  error
	writeErr error
}

type fakeInput struct{ e *fakeEncoder }

func (in fakeInput) Write(p []byte) (int, error) {
	in.e.mu.Lock()
	defer in.e.mu.Unlock()
	if in.e.killed || in.e.closed {
		return 0, io.ErrClosedPipe
	}
	if in.e.writeErr != nil {
		return 0, in.e.writeErr
	}
	return in.e.out.Write(p)
}

func (in fakeInput) Close() error {
	in.e.mu.Lock()
	defer in.e.mu.Unlock()
	in.e.closed = true
	return nil
}

func (e *fakeEncoder) Start(context.Context) (io.WriteCloser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.startErr != nil {
		return nil, e.startErr
	}
	e.started++
	return fakeInput{e}, nil
}

func (e *fakeEncoder) Wait() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waited = true
	return e.waitErr
}

func (e *fakeEncoder) Kill() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.killed = true
	return nil
}

// gatedEncoder blocks in Start until release is closed.
type gatedEncoder struct {
	fakeEncoder
	entered chan struct{}
	release chan struct{}
}

func (e *gatedEncoder) Start(ctx context.Context) (io.WriteCloser, error) {
	close(e.entered)
	<-e.release
	return e.fakeEncoder.Start(ctx)
}

func (e *fakeEncoder) bytes() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.out.Bytes()...)
}

func testOptions(t *testing.T, s Strategy) Options {
	t.Helper()
	return Options{
		Width:    2,
		Height:   1,
		FPS:      4,
		Output:   "out.mp4",
		Strategy: s,
		Dir:      filepath.Join(t.TempDir(), "frames"),
		Depth:    2,
	}
}

func frame(b byte) []byte { return []byte{b, b, b, b + 1, b + 1, b + 1} }

var strategies = []Strategy{Memory, Disk, Stream}

func TestFramesReachEncoderInOrder(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			enc := &fakeEncoder{}
			opts := testOptions(t, s)
			r, err := Start(context.Background(), opts, enc)
			if err != nil {
				t.Fatal(err)
			}
			var want []byte
			for _, b := range []byte{10, 20, 30} {
				f := frame(b)
				want = append(want, f...)
				if err := r.Submit(f); err != nil {
					t.Fatalf("submit %d: %v", b, err)
				}
			}
			if err := r.Finalize(); err != nil {
				t.Fatalf("finalize: %v", err)
			}
			if got := enc.bytes(); !bytes.Equal(got, want) {
				t.Fatalf("encoder received %v, expected %v", got, want)
			}
			if !enc.closed || !enc.waited {
				t.Fatalf("encoder input closed=%v waited=%v", enc.closed, enc.waited)
			}
			if enc.started != 1 {
				t.Fatalf("encoder started %d times", enc.started)
			}
			if s == Disk {
				if _, err := os.Stat(opts.Dir); !os.IsNotExist(err) {
					t.Fatalf("frame dir still present after finalize: %v", err)
				}
			}
		})
	}
}

func TestStartEncoderLazily(t *testing.T) {
	enc := &fakeEncoder{}
	r, err := Start(context.Background(), testOptions(t, Memory), enc)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Submit(frame(1)); err != nil {
		t.Fatal(err)
	}
	if enc.started != 0 {
		t.Fatal("memory strategy should not start the encoder before Finalize")
	}
}

func TestDiskReplayNumericOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	d, err := NewDiskStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		if err := d.Put([]byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "11.frame")); err != nil {
		t.Fatalf("expected numbered frame file: %v", err)
	}

	var got []byte
	if err := d.Replay(func(f []byte) error {
		got = append(got, f...)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	if !slices.Equal(got, want) {
		t.Fatalf("replay order %v, expected %v", got, want)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("replay left %d files behind", len(entries))
	}
	if err := d.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("cleanup did not remove the frame dir")
	}
}

func TestDiskStoreStartsFresh(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "0.frame"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := NewDiskStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	if err := d.Replay(func([]byte) error { calls++; return nil }); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("stale frames replayed: %d", calls)
	}
}

func TestSubmitRejectsWrongSize(t *testing.T) {
	r, err := Start(context.Background(), testOptions(t, Memory), &fakeEncoder{})
	if err != nil {
		t.Fatal(err)
	}
	err = r.Submit([]byte{1, 2, 3})
	if !errors.Is(err, ErrRecording) {
		t.Fatalf("expected recording failure, got %v", err)
	}
	if r.Frames() != 0 {
		t.Fatal("rejected frame was counted")
	}
}

func TestSubmitAfterFinalize(t *testing.T) {
	r, err := Start(context.Background(), testOptions(t, Memory), &fakeEncoder{})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Finalize(); err != nil {
		t.Fatal(err)
	}
	err = r.Submit(frame(1))
	if !errors.Is(err, ErrClosed) || !errors.Is(err, ErrRecording) {
		t.Fatalf("expected closed recording error, got %v", err)
	}
	if err := r.Finalize(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second finalize: %v", err)
	}
}

func TestElapsedAndTarget(t *testing.T) {
	opts := testOptions(t, Memory)
	opts.Target = 500 * time.Millisecond
	r, err := Start(context.Background(), opts, &fakeEncoder{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Done() {
		t.Fatal("empty recording reported done")
	}
	_ = r.Submit(frame(1))
	if got := r.Elapsed(); got != 250*time.Millisecond {
		t.Fatalf("elapsed %v after one frame at 4 fps", got)
	}
	if r.Done() {
		t.Fatal("done before target")
	}
	_ = r.Submit(frame(2))
	if !r.Done() {
		t.Fatalf("not done at %v", r.Elapsed())
	}
}

func TestEncoderExitFailure(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			enc := &fakeEncoder{waitErr: errors.New("ffmpeg exited with status 1")}
			opts := testOptions(t, s)
			r, err := Start(context.Background(), opts, enc)
			if err != nil {
				t.Fatal(err)
			}
			_ = r.Submit(frame(1))
			err = r.Finalize()
			if !errors.Is(err, ErrRecording) {
				t.Fatalf("expected recording failure, got %v", err)
			}
			if !strings.Contains(err.Error(), "status 1") {
				t.Fatalf("diagnostic lost: %v", err)
			}
			if s == Disk {
				if _, err := os.Stat(opts.Dir); !os.IsNotExist(err) {
					t.Fatal("frame dir kept after failure")
				}
			}
		})
	}
}

func TestEncoderStartFailure(t *testing.T) {
	boom := errors.New("no such binary")

	_, err := Start(context.Background(), testOptions(t, Stream), &fakeEncoder{startErr: boom})
	if !errors.Is(err, ErrRecording) || !errors.Is(err, boom) {
		t.Fatalf("stream start: %v", err)
	}

	r, err := Start(context.Background(), testOptions(t, Memory), &fakeEncoder{startErr: boom})
	if err != nil {
		t.Fatal(err)
	}
	_ = r.Submit(frame(1))
	if err := r.Finalize(); !errors.Is(err, boom) || !errors.Is(err, ErrRecording) {
		t.Fatalf("memory finalize: %v", err)
	}
}

func TestAbort(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			enc := &fakeEncoder{}
			opts := testOptions(t, s)
			r, err := Start(context.Background(), opts, enc)
			if err != nil {
				t.Fatal(err)
			}
			_ = r.Submit(frame(1))
			if err := r.Abort(); err != nil {
				t.Fatal(err)
			}
			if s == Stream && !enc.killed {
				t.Fatal("running encoder was not killed")
			}
			if enc.waited {
				t.Fatal("abort must not wait for a graceful drain")
			}
			if err := r.Submit(frame(2)); !errors.Is(err, ErrClosed) {
				t.Fatalf("submit after abort: %v", err)
			}
			if err := r.Finalize(); !errors.Is(err, ErrClosed) {
				t.Fatalf("finalize after abort: %v", err)
			}
			if s == Disk {
				if _, err := os.Stat(opts.Dir); !os.IsNotExist(err) {
					t.Fatal("frame dir kept after abort")
				}
			}
			if err := r.Abort(); err != nil {
				t.Fatalf("second abort: %v", err)
			}
		})
	}
}

func TestAbortWhileFinalizeStartsEncoder(t *testing.T) {
	enc := &gatedEncoder{entered: make(chan struct{}), release: make(chan struct{})}
	r, err := Start(context.Background(), testOptions(t, Memory), enc)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range []byte{1, 2, 3} {
		if err := r.Submit(frame(b)); err != nil {
			t.Fatal(err)
		}
	}

	done := make(chan error, 1)
	go func() { done <- r.Finalize() }()
	<-enc.entered
	if err := r.Abort(); err != nil {
		t.Fatal(err)
	}
	close(enc.release)

	if err := <-done; !errors.Is(err, ErrAborted) || !errors.Is(err, ErrRecording) {
		t.Fatalf("finalize: %v", err)
	}
	if got := enc.bytes(); len(got) != 0 {
		t.Fatalf("aborted finalize still delivered %d bytes", len(got))
	}
	enc.mu.Lock()
	defer enc.mu.Unlock()
	if !enc.killed {
		t.Fatal("encoder started during abort was not killed")
	}
}

func TestAbortDuringReplayStopsFrames(t *testing.T) {
	enc := &fakeEncoder{}
	r, err := Start(context.Background(), testOptions(t, Memory), enc)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range []byte{1, 2, 3} {
		if err := r.Submit(frame(b)); err != nil {
			t.Fatal(err)
		}
	}
	r.mu.Lock()
	r.state = stateFinalizing
	r.mu.Unlock()
	if err := r.Abort(); err != nil {
		t.Fatal(err)
	}
	if err := r.finalize(fakeInput{enc}, true); !errors.Is(err, ErrAborted) {
		t.Fatalf("replay after abort: %v", err)
	}
	if got := enc.bytes(); len(got) != 0 {
		t.Fatalf("replay wrote %d bytes after abort", len(got))
	}
}

func TestStreamWriteFailure(t *testing.T) {
	boom := errors.New("broken pipe")
	enc := &fakeEncoder{writeErr: boom}
	r, err := Start(context.Background(), testOptions(t, Stream), enc)
	if err != nil {
		t.Fatal(err)
	}
	failed := 0
	for i := 0; i < 10; i++ {
		if err := r.Submit(frame(byte(i))); err != nil {
			if !errors.Is(err, boom) || !errors.Is(err, ErrRecording) {
				t.Fatalf("submit %d: %v", i, err)
			}
			failed++
		}
	}
	if failed == 0 {
		t.Fatal("no submit reported the failed write")
	}
	if err := r.Finalize(); !errors.Is(err, boom) || !errors.Is(err, ErrRecording) {
		t.Fatalf("finalize: %v", err)
	}
	enc.mu.Lock()
	defer enc.mu.Unlock()
	if !enc.killed {
		t.Fatal("failed encoder was not killed")
	}
}

func TestOptionsValidate(t *testing.T) {
	base := Options{Width: 4, Height: 4, FPS: 30, Output: "x.mp4"}
	if err := base.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := []func(*Options){
		func(o *Options) { o.Width = 0 },
		func(o *Options) { o.FPS = 0 },
		func(o *Options) { o.Output = "" },
		func(o *Options) { o.Target = -time.Second },
	}
	for i, mod := range bad {
		o := base
		mod(&o)
		if err := o.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"memory": Memory, "Disk": Disk, " stream ": Stream, "pipe": Stream} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStrategy("tape"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestFFmpegArgs(t *testing.T) {
	f := NewFFmpeg(800, 600, 60, "out.mp4")
	want := []string{
		"-f", "rawvideo", "-pix_fmt", "rgb24", "-s", "800x600", "-r", "60",
		"-i", "pipe:0", "-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-preset", "veryslow", "-y", "out.mp4",
	}
	if got := f.Args(); !slices.Equal(got, want) {
		t.Fatalf("args = %v", got)
	}
}

func TestFFmpegMissingBinary(t *testing.T) {
	f := NewFFmpeg(2, 1, 4, filepath.Join(t.TempDir(), "out.mp4"))
	f.Bin = filepath.Join(t.TempDir(), "no-ffmpeg-here")
	r, err := Start(context.Background(), testOptions(t, Memory), f)
	if err != nil {
		t.Fatal(err)
	}
	_ = r.Submit(frame(1))
	if err := r.Finalize(); !errors.Is(err, ErrRecording) {
		t.Fatalf("expected recording failure, got %v", err)
	}
	if err := f.Kill(); err != nil {
		t.Fatalf("kill on unstarted encoder: %v", err)
	}
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{max: 4}
	_, _ = tb.Write([]byte("abcdef"))
	_, _ = tb.Write([]byte("gh"))
	if got := tb.String(); got != "efgh" {
		t.Fatalf("tail = %q", got)
	}
}
