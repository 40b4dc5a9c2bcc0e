package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

// Encoder is the external process that turns raw frames into a media file.
type Encoder interface {
	// Start launches the process and returns its input stream.
	Start(ctx context.Context) (io.WriteCloser, error)
	// Wait blocks until the process exits. The input must be closed first.
	Wait() error
	// Kill terminates the process without draining its input.
	Kill() error
}

// FFmpeg runs the ffmpeg binary reading rgb24 rawvideo from stdin.
type FFmpeg struct {
	Bin    string
	Width  int
	Height int
	FPS    int
	Output string
	Preset string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stderr *tailBuffer
}

// NewFFmpeg returns an encoder writing an H.264 file at output.
func NewFFmpeg(w, h, fps int, output string) *FFmpeg {
	return &FFmpeg{Bin: "ffmpeg", Width: w, Height: h, FPS: fps, Output: output, Preset: "veryslow"}
}

// Args returns the command line passed to the binary.
func (f *FFmpeg) Args() []string {
	preset := f.Preset
	if preset == "" {
		preset = "veryslow"
	}
	return []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", strconv.Itoa(f.Width) + "x" + strconv.Itoa(f.Height),
		"-r", strconv.Itoa(f.FPS),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", preset,
		"-y", f.Output,
	}
}

func (f *FFmpeg) Start(ctx context.Context) (io.WriteCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd != nil {
		return nil, errors.New("ffmpeg already started")
	}
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, f.Args()...)
	f.stderr = &tailBuffer{max: 4096}
	cmd.Stderr = f.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", bin, err)
	}
	f.cmd = cmd
	return stdin, nil
}

func (f *FFmpeg) Wait() error {
	f.mu.Lock()
	cmd := f.cmd
	f.mu.Unlock()
	if cmd == nil {
		return errors.New("ffmpeg not started")
	}
	if err := cmd.Wait(); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return fmt.Errorf("ffmpeg exited with status %d: %s", exit.ExitCode(), f.stderr.String())
		}
		return err
	}
	return nil
}

func (f *FFmpeg) Kill() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd == nil || f.cmd.Process == nil {
		return nil
	}
	return f.cmd.Process.Kill()
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(bytes.TrimSpace(t.buf.Bytes()))
}
