package ramfs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentReadersDoNotExcludeEachOther exercises spec.md §5's
// "concurrent reads allowed" property: many goroutines opening the same
// file read-only must all succeed and see the same content.
func TestConcurrentReadersDoNotExcludeEachOther(t *testing.T) {
	// 16 readers may hold handles at once, so the table needs more than the
	// 7 usable slots newTestFS provides.
	fs := New(Config{MaxHandles: 32, InitialFileCapacity: 16, ReallocSlack: 16, MountName: "/ram"})
	require.NoError(t, fs.Init())
	h, _ := fs.Open("/shared.txt", WriteOnly)
	_, err := fs.Write(h, []byte("concurrent"))
	require.NoError(t, err)
	require.NoError(t, fs.Close(h))

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			rh, err := fs.Open("/shared.txt", ReadOnly)
			if err != nil {
				return err
			}
			defer fs.Close(rh)

			buf := make([]byte, 32)
			n, err := fs.Read(rh, buf)
			if err != nil {
				return err
			}
			if string(buf[:n]) != "concurrent" {
				return fmt.Errorf("unexpected content %q", buf[:n])
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}

// TestConcurrentWritersAreExcluded exercises the single-writer property:
// of many goroutines racing to open the same path for writing, exactly one
// succeeds at a time (the rest observe EBUSY until the first closes).
func TestConcurrentWritersAreExcluded(t *testing.T) {
	fs := newTestFS(t)
	h, _ := fs.Open("/shared.txt", WriteOnly)
	require.NoError(t, fs.Close(h))

	var successes int
	var mu sync.Mutex
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			wh, err := fs.Open("/shared.txt", WriteOnly)
			if err == EBUSY {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			successes++
			mu.Unlock()
			return fs.Close(wh)
		})
	}
	require.NoError(t, g.Wait())
	assert.GreaterOrEqual(t, successes, 1)
}

// TestConcurrentCreateDistinctFilesNeverPanics drives many goroutines
// creating and unlinking distinct files, relying on checkInvariants running
// on every unlock to catch any corruption of the shared tree or handle
// table under contention.
func TestConcurrentCreateDistinctFilesNeverPanics(t *testing.T) {
	// 8 writers may hold handles at once; newTestFS has only 7 usable slots.
	fs := New(Config{MaxHandles: 32, InitialFileCapacity: 16, ReallocSlack: 16, MountName: "/ram"})
	require.NoError(t, fs.Init())

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			path := fmt.Sprintf("/file-%d.txt", i)
			h, err := fs.Open(path, WriteOnly)
			if err != nil {
				return err
			}
			if _, err := fs.Write(h, []byte("payload")); err != nil {
				return err
			}
			if err := fs.Close(h); err != nil {
				return err
			}
			return fs.Unlink(path)
		})
	}
	assert.NoError(t, g.Wait())
}

// TestCheckInvariantsPanicsOnUseCountMismatch exercises the assertion-style
// failure mode of spec.md §7/§8: corrupting use_count behind the engine's
// back must trip checkInvariants on the next unlock.
func TestCheckInvariantsPanicsOnUseCountMismatch(t *testing.T) {
	fs := newTestFS(t)
	h, err := fs.Open("/f.txt", WriteOnly)
	require.NoError(t, err)

	entry := fs.handles.get(h)
	entry.node.useCount = 5 // corrupt it directly, bypassing Open's bookkeeping

	assert.Panics(t, func() {
		fs.Close(h)
	})
}
