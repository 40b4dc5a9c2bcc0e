package record

import (
	"io"
	"sync"

	"github.com/ChrisGora/semaphore"
)

// DefaultDepth is the number of frames a StreamStore queues before Put blocks.
const DefaultDepth = 8

type queued struct {
	frame []byte
	stop  bool
}

// StreamStore forwards frames to an attached writer from a single goroutine.
// Put blocks while the bounded queue is full. Once a write fails every later
// frame is dropped and the error is reported by Put and Replay.
type StreamStore struct {
	ring       []queued
	head, tail int
	mu         sync.Mutex

	spaceAvailable semaphore.Semaphore
	workAvailable  semaphore.Semaphore

	w       io.Writer
	err     error
	count   int
	stopped bool
	done    chan struct{}
}

// NewStreamStore returns a store whose queue holds depth frames.
func NewStreamStore(depth int) *StreamStore {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &StreamStore{
		ring:           make([]queued, depth),
		spaceAvailable: semaphore.Init(depth, depth),
		workAvailable:  semaphore.Init(depth, 0),
		done:           make(chan struct{}),
	}
}

// Attach starts the writer goroutine. It must be called once, before Put.
func (s *StreamStore) Attach(w io.Writer) {
	s.w = w
	go s.drain()
}

func (s *StreamStore) push(q queued) {
	s.spaceAvailable.Wait()
	s.mu.Lock()
	s.ring[s.tail] = q
	s.tail = (s.tail + 1) % len(s.ring)
	s.mu.Unlock()
	s.workAvailable.Post()
}

func (s *StreamStore) drain() {
	defer close(s.done)
	for {
		s.workAvailable.Wait()
		s.mu.Lock()
		q := s.ring[s.head]
		s.ring[s.head] = queued{}
		s.head = (s.head + 1) % len(s.ring)
		failed := s.err != nil
		s.mu.Unlock()
		s.spaceAvailable.Post()

		if q.stop {
			return
		}
		if failed {
			continue
		}
		if _, err := s.w.Write(q.frame); err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}
}

func (s *StreamStore) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *StreamStore) Put(frame []byte) error {
	if err := s.failure(); err != nil {
		return err
	}
	s.push(queued{frame: frame})
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}

func (s *StreamStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Replay waits for every queued frame to be written. fn is never called
// because frames were delivered as they arrived.
func (s *StreamStore) Replay(func([]byte) error) error {
	s.stop()
	return s.failure()
}

func (s *StreamStore) Cleanup() error {
	s.stop()
	return nil
}

func (s *StreamStore) stop() {
	if s.w == nil {
		return
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.stopped = true
	s.mu.Unlock()
	s.push(queued{stop: true})
	<-s.done
}
