package record

// MemoryStore holds frames in a slice.
type MemoryStore struct {
	frames [][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Put(frame []byte) error {
	m.frames = append(m.frames, frame)
	return nil
}

func (m *MemoryStore) Len() int { return len(m.frames) }

func (m *MemoryStore) Replay(fn func([]byte) error) error {
	for _, f := range m.frames {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Cleanup() error {
	m.frames = nil
	return nil
}
