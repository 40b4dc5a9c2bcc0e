package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/apex/log"
)

// Sink accepts rendered frames for encoding.
type Sink interface {
	Submit(frame []byte) error
	Elapsed() time.Duration
	Finalize() error
	Abort() error
}

// Options configures a Recorder.
type Options struct {
	Width, Height int
	FPS           int
	Output        string
	Strategy      Strategy
	// Dir is the frame directory for the Disk strategy.
	Dir string
	// Depth is the queue length for the Stream strategy.
	Depth int
	// Target stops the recording once this much video has been captured.
	// Zero records until Finalize.
	Target time.Duration
}

// Validate checks the options before any resource is acquired.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("frame size %dx%d must be positive", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("fps %d must be positive", o.FPS)
	}
	if o.Output == "" {
		return errors.New("output path is empty")
	}
	if o.Target < 0 {
		return fmt.Errorf("target length %v is negative", o.Target)
	}
	return nil
}

type state int

const (
	stateOpen state = iota
	stateFinalizing
	stateDone
	stateAborted
)

// Recorder buffers frames in a Store and feeds them to an Encoder.
type Recorder struct {
	opts  Options
	store Store
	enc   Encoder
	ctx   context.Context
	log   *log.Entry

	mu      sync.Mutex
	state   state
	started bool
	input   io.WriteCloser
	frames  int
}

var _ Sink = (*Recorder)(nil)

// Start validates opts, opens the frame store and, for stores that deliver
// frames live, launches the encoder. ctx bounds the encoder process.
func Start(ctx context.Context, opts Options, enc Encoder) (*Recorder, error) {
	if err := opts.Validate(); err != nil {
		return nil, fail("start", err)
	}
	store, err := NewStore(opts.Strategy, opts.Dir, opts.Depth)
	if err != nil {
		return nil, fail("start", err)
	}
	r := &Recorder{
		opts:  opts,
		store: store,
		enc:   enc,
		ctx:   ctx,
		log: log.WithFields(log.Fields{
			"output":   opts.Output,
			"strategy": opts.Strategy.String(),
			"size":     fmt.Sprintf("%dx%d", opts.Width, opts.Height),
			"fps":      opts.FPS,
		}),
	}
	if a, ok := store.(Attacher); ok {
		w, err := r.launch()
		if err != nil {
			_ = store.Cleanup()
			return nil, err
		}
		a.Attach(w)
	}
	r.log.Info("recording started")
	return r, nil
}

// launch starts the encoder. An Abort that lands while Start is in flight
// finds started unset, so the process is killed here instead.
func (r *Recorder) launch() (io.WriteCloser, error) {
	if r.aborted() {
		return nil, fail("start encoder", ErrAborted)
	}
	w, err := r.enc.Start(r.ctx)
	if err != nil {
		return nil, fail("start encoder", err)
	}
	r.mu.Lock()
	if r.state == stateAborted {
		r.mu.Unlock()
		_ = w.Close()
		_ = r.enc.Kill()
		_ = r.enc.Wait()
		return nil, fail("start encoder", ErrAborted)
	}
	r.started = true
	r.input = w
	r.mu.Unlock()
	return w, nil
}

func (r *Recorder) aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateAborted
}

// Options returns the configuration the recorder was started with.
func (r *Recorder) Options() Options { return r.opts }

// Submit stores one frame. Frames reach the encoder in submission order.
func (r *Recorder) Submit(frame []byte) error {
	if want := r.opts.Width * r.opts.Height * 3; len(frame) != want {
		return fail("submit", fmt.Errorf("frame is %d bytes, expected %d", len(frame), want))
	}
	r.mu.Lock()
	if r.state != stateOpen {
		r.mu.Unlock()
		return fail("submit", ErrClosed)
	}
	r.mu.Unlock()

	if err := r.store.Put(frame); err != nil {
		return fail("submit", err)
	}
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
	return nil
}

// Frames returns the number of accepted frames.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Elapsed returns the length of video represented by the accepted frames.
func (r *Recorder) Elapsed() time.Duration {
	return time.Duration(r.Frames()) * time.Second / time.Duration(r.opts.FPS)
}

// Done reports whether the target length has been reached.
func (r *Recorder) Done() bool {
	return r.opts.Target > 0 && r.Elapsed() >= r.opts.Target
}

// Finalize replays every buffered frame into the encoder, closes its input and
// waits for it to exit. A non-zero exit is returned as an error.
func (r *Recorder) Finalize() error {
	r.mu.Lock()
	if r.state != stateOpen {
		r.mu.Unlock()
		return fail("finalize", ErrClosed)
	}
	r.state = stateFinalizing
	w, started := r.input, r.started
	r.mu.Unlock()

	r.log.WithField("frames", r.Frames()).Info("encoding")
	start := time.Now()

	err := r.finalize(w, started)

	r.mu.Lock()
	aborted := r.state == stateAborted
	if !aborted {
		r.state = stateDone
	}
	r.mu.Unlock()

	if aborted || err != nil {
		r.mu.Lock()
		started = r.started
		r.mu.Unlock()
		if started {
			_ = r.enc.Kill()
			_ = r.enc.Wait()
		}
		_ = r.store.Cleanup()
	}
	if aborted {
		return fail("finalize", ErrAborted)
	}
	if err != nil {
		r.log.WithError(err).Error("recording failed")
		return err
	}
	r.log.WithField("took", time.Since(start).Round(time.Millisecond)).Info("recording done")
	return nil
}

func (r *Recorder) finalize(w io.WriteCloser, started bool) error {
	if !started {
		var err error
		if w, err = r.launch(); err != nil {
			return err
		}
	}
	if err := r.store.Replay(func(frame []byte) error {
		if r.aborted() {
			return ErrAborted
		}
		_, err := w.Write(frame)
		return err
	}); err != nil {
		_ = w.Close()
		return fail("replay", err)
	}
	if err := w.Close(); err != nil {
		return fail("close encoder input", err)
	}
	if err := r.enc.Wait(); err != nil {
		return fail("wait encoder", err)
	}
	if err := r.store.Cleanup(); err != nil {
		return fail("cleanup", err)
	}
	return nil
}

// Abort kills the encoder and discards buffered frames without draining them.
// It may be called while Finalize is running.
func (r *Recorder) Abort() error {
	r.mu.Lock()
	if r.state == stateDone || r.state == stateAborted {
		r.mu.Unlock()
		return nil
	}
	wasFinalizing := r.state == stateFinalizing
	r.state = stateAborted
	started := r.started
	r.mu.Unlock()

	r.log.Warn("recording aborted")
	var errs []error
	if started {
		if err := r.enc.Kill(); err != nil {
			errs = append(errs, err)
		}
	}
	if !wasFinalizing {
		if started {
			_ = r.input.Close()
		}
		if err := r.store.Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fail("abort", err)
	}
	return nil
}
