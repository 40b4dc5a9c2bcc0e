package record

import (
	"fmt"
	"io"
	"strings"
)

// Strategy selects how frames are held before they reach the encoder.
type Strategy int

const (
	// Memory keeps every frame in RAM until Finalize.
	Memory Strategy = iota
	// Disk spills every frame to a numbered file until Finalize.
	Disk
	// Stream forwards frames to the encoder as they are submitted.
	Stream
)

func (s Strategy) String() string {
	switch s {
	case Memory:
		return "memory"
	case Disk:
		return "disk"
	case Stream:
		return "stream"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(v string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "memory", "mem":
		return Memory, nil
	case "disk":
		return Disk, nil
	case "stream", "pipe":
		return Stream, nil
	}
	return 0, fmt.Errorf("unknown record strategy %q (want memory, disk or stream)", v)
}

// Store buffers frames in submission order.
type Store interface {
	// Put appends one frame. The store takes ownership of the slice.
	Put(frame []byte) error
	// Len returns the number of frames accepted so far.
	Len() int
	// Replay hands every buffered frame to fn in submission order.
	Replay(fn func(frame []byte) error) error
	// Cleanup releases everything the store holds.
	Cleanup() error
}

// Attacher is implemented by stores that deliver frames while recording.
// The recorder starts the encoder up front and attaches its input.
type Attacher interface {
	Attach(w io.Writer)
}

// NewStore builds the store for s. dir is only used by Disk and depth only by
// Stream.
func NewStore(s Strategy, dir string, depth int) (Store, error) {
	switch s {
	case Memory:
		return NewMemoryStore(), nil
	case Disk:
		return NewDiskStore(dir)
	case Stream:
		return NewStreamStore(depth), nil
	}
	return nil, fmt.Errorf("unknown record strategy %v", s)
}
