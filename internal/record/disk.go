package record

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
)

const frameExt = ".frame"

// DefaultDir is the working directory used when none is configured.
const DefaultDir = "frames"

// DiskStore writes each frame to <dir>/<index>.frame. The directory is
// recreated empty when the store is opened and removed by Cleanup.
type DiskStore struct {
	dir   string
	count int
}

// NewDiskStore wipes and recreates dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clear frame dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	log.WithField("dir", dir).Debug("frame dir ready")
	return &DiskStore{dir: dir}, nil
}

func (d *DiskStore) path(i int) string {
	return filepath.Join(d.dir, strconv.Itoa(i)+frameExt)
}

func (d *DiskStore) Put(frame []byte) error {
	if err := os.WriteFile(d.path(d.count), frame, 0o644); err != nil {
		return err
	}
	d.count++
	return nil
}

func (d *DiskStore) Len() int { return d.count }

// Replay reads the frame files in ascending numeric order, deleting each one
// after fn accepts it.
func (d *DiskStore) Replay(fn func([]byte) error) error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}
	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, frameExt) {
			continue
		}
		i, err := strconv.Atoi(strings.TrimSuffix(name, frameExt))
		if err != nil {
			continue
		}
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		p := d.path(i)
		frame, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := fn(frame); err != nil {
			return err
		}
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiskStore) Cleanup() error {
	return os.RemoveAll(d.dir)
}
