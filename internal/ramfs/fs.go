// Package ramfs implements the in-memory hierarchical file system described
// by the project's specification: a tree of named nodes with content held
// entirely in heap memory, exported through a small VFS operation table.
//
// Every exported method on FileSystem acquires the engine's single mutex on
// entry and releases it on every exit path, serializing all state mutation
// exactly as spec.md §5 requires. Nothing here talks to a real kernel VFS;
// that registry is treated as an external collaborator (see
// internal/vfshost for a minimal stand-in used by cmd/ramfsctl).
package ramfs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jacobsa/syncutil"
)

// Seek whence values for the Seek operation (spec.md §4.3).
const (
	SeekSet = iota
	SeekCurrent
	SeekEnd
)

// Stat is the information returned by Stat and Fstat (spec.md §4.3). Dev is
// taken from Config.StatDeviceTag, not hardcoded, so a caller can override
// the reported device tag (spec.md §6 lists it among the tunable constants).
type Stat struct {
	Dev     uint32
	Mode    os.FileMode
	Size    int64
	Nlink   int
	Blksize int
	Blocks  int
}

// FcntlCmd enumerates the fcntl commands spec.md §4.3 gives meaning to.
type FcntlCmd int

const (
	FcntlGetFlags FcntlCmd = iota
	FcntlSetFlags
	FcntlGetFdFlags
	FcntlSetFdFlags
)

// Option configures a FileSystem constructed with New.
type Option func(*FileSystem)

// WithLogger overrides the default (slog.Default()) logger. A nil l keeps
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(fs *FileSystem) {
		if l == nil {
			l = slog.Default()
		}
		fs.logger = l
	}
}

// WithMetrics attaches an OpenTelemetry-backed Metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(fs *FileSystem) { fs.metrics = m }
}

// FileSystem is the operation engine of spec.md §4.3: the tree of nodes,
// the handle table, and the single mutex serializing both.
//
// LOCK ORDERING: there is exactly one lock (mu). No operation acquires any
// other lock while holding it, and no operation suspends while holding it
// other than via Go's allocator, which does not block on I/O.
type FileSystem struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics

	mu      syncutil.InvariantMutex
	root    *node         // GUARDED_BY(mu); nil until Init
	handles *handleTable  // GUARDED_BY(mu); nil until Init
}

// New constructs a FileSystem bound to cfg. It does not yet have a root or a
// handle table — call Init to allocate those, matching spec.md §6's
// idempotent module-level initializer discipline, generalized from a
// process-wide singleton to a per-instance object (see DESIGN.md).
func New(cfg Config, opts ...Option) *FileSystem {
	fs := &FileSystem{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)
	return fs
}

// Init allocates the root directory and handle table. Idempotent: if the
// root already exists, it returns immediately (spec.md §6).
func (fs *FileSystem) Init() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.root != nil {
		return nil
	}

	fs.root = newDirNode("/")
	fs.handles = newHandleTable(fs.cfg.MaxHandles)
	return nil
}

// Shutdown drops the root and handle table. Per spec.md §6 this assumes all
// children live directly under the root, since mkdir is unimplemented; Go's
// garbage collector supersedes the source's manual free-every-child loop
// once nothing references the tree.
func (fs *FileSystem) Shutdown() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.root = nil
	fs.handles = nil
	return nil
}

// checkInvariants verifies spec.md §8's universally-quantified invariants.
// Run by syncutil.InvariantMutex on every Unlock; any violation is a bug in
// this package, not a user error, so it panics (spec.md §7).
func (fs *FileSystem) checkInvariants() {
	if fs.root == nil {
		return
	}

	counts := make(map[*node]int)
	for _, e := range fs.handles.slots {
		if e == nil {
			continue
		}
		counts[e.node]++
		if !e.isDirectory && (e.cursor < 0 || e.cursor > e.node.logicalSize) {
			panic(fmt.Sprintf("ramfs: handle cursor %d out of range for %q", e.cursor, e.node.name))
		}
	}

	var walk func(n *node)
	walk = func(n *node) {
		if got := counts[n]; got != n.useCount {
			panic(fmt.Sprintf("ramfs: use_count mismatch for %q: recorded %d, handles reference %d", n.name, n.useCount, got))
		}
		if n.useCount == 0 && n.openMode != modeNone {
			panic(fmt.Sprintf("ramfs: open_mode not reset to none for %q", n.name))
		}

		if !n.isDir() {
			if n.logicalSize < 0 || len(n.buffer) < n.logicalSize {
				panic(fmt.Sprintf("ramfs: capacity < logical_size for %q", n.name))
			}
			return
		}

		seen := make(map[string]bool, len(n.children))
		for _, c := range n.children {
			lower := strings.ToLower(c.name)
			if seen[lower] {
				panic(fmt.Sprintf("ramfs: duplicate sibling name %q under %q", c.name, n.name))
			}
			seen[lower] = true
			walk(c)
		}
	}
	walk(fs.root)
}

// DebugStats summarizes the tree and handle table for diagnostics.
type DebugStats struct {
	NodeCount      int
	FileCount      int
	DirCount       int
	BytesAllocated int
	HandlesInUse   int
	HandleCapacity int
}

// Debug walks the tree and reports aggregate occupancy, the supplemented
// diagnostic operation of SPEC_FULL.md §11.1. It reuses checkInvariants's
// full-tree-walk shape rather than introducing a second traversal.
func (fs *FileSystem) Debug() DebugStats {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var stats DebugStats
	if fs.handles != nil {
		stats.HandleCapacity = len(fs.handles.slots)
		for _, e := range fs.handles.slots {
			if e != nil {
				stats.HandlesInUse++
			}
		}
	}

	if fs.root == nil {
		return stats
	}

	var walk func(n *node)
	walk = func(n *node) {
		stats.NodeCount++
		if n.isDir() {
			stats.DirCount++
			for _, c := range n.children {
				walk(c)
			}
			return
		}
		stats.FileCount++
		stats.BytesAllocated += len(n.buffer)
	}
	walk(fs.root)
	return stats
}

// Open implements spec.md §4.3's open(path, flags).
func (fs *FileSystem) Open(path string, flags OpenFlags) (int, error) {
	if flags.directory() && flags.mode() != ReadOnly {
		return 0, EINVALID
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, rerr := resolveAny(fs.root, path)
	if rerr != nil {
		if !flags.writable() || flags.directory() {
			return 0, ENOTFOUND
		}

		parent, leaf, serr := splitParentLeaf(fs.root, path)
		if serr != nil {
			return 0, ENOTFOUND
		}

		n = newFileNode(leaf, fs.cfg.InitialFileCapacity)
		parent.insertChild(n)
	} else {
		mismatch := (n.isDir() && (!flags.directory() || flags.writable())) ||
			(!n.isDir() && flags.directory())
		if mismatch {
			return 0, EINVALID
		}
	}

	entry := &handleEntry{node: n, isDirectory: n.isDir(), openFlags: flags}
	h, aerr := fs.handles.alloc(entry)
	if aerr != nil {
		return 0, aerr
	}

	if n.openMode == modeWriting || (flags.writable() && n.openMode == modeReading) {
		fs.handles.release(h)
		fs.logger.Warn("open rejected: busy", "path", path)
		return 0, EBUSY
	}

	if flags.writable() {
		n.openMode = modeWriting
	} else {
		n.openMode = modeReading
	}

	switch {
	case n.isDir():
		entry.dirCursor = firstChild(n)
	case flags.truncate():
		n.buffer = make([]byte, fs.cfg.InitialFileCapacity)
		n.logicalSize = 0
	case flags.append():
		entry.cursor = n.logicalSize
	}

	n.useCount++
	fs.metrics.recordOpen()
	fs.logger.Debug("open", "path", path, "handle", h, "flags", flags)
	return h, nil
}

// Close implements spec.md §4.3's close(handle). Unknown handles are
// silently tolerated, matching the documented existing behavior.
func (fs *FileSystem) Close(h int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.release(h)
	if e == nil {
		return nil
	}

	e.node.useCount--
	if e.node.useCount < 0 {
		panic(fmt.Sprintf("ramfs: negative use_count for %q after close", e.node.name))
	}
	if e.node.useCount == 0 {
		e.node.openMode = modeNone
	}

	fs.metrics.recordClose()
	fs.logger.Debug("close", "handle", h)
	return nil
}

// Read implements spec.md §4.3's read(handle, buf, n), with len(buf) taken
// as n. Valid only on file handles.
func (fs *FileSystem) Read(h int, buf []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || e.isDirectory {
		return -1, EBADHANDLE
	}

	n := e.node
	avail := n.logicalSize - e.cursor
	if avail < 0 {
		avail = 0
	}
	count := len(buf)
	if count > avail {
		count = avail
	}

	copy(buf[:count], n.buffer[e.cursor:e.cursor+count])
	e.cursor += count
	return count, nil
}

// Write implements spec.md §4.3's write(handle, buf, n), with len(buf)
// taken as n. Valid only on file handles currently open for writing.
func (fs *FileSystem) Write(h int, buf []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || e.isDirectory {
		return -1, EBADHANDLE
	}

	n := e.node
	if n.openMode != modeWriting {
		return -1, EBADHANDLE
	}

	need := e.cursor + len(buf)
	if need > len(n.buffer) {
		grown := make([]byte, need+fs.cfg.ReallocSlack)
		copy(grown, n.buffer[:n.logicalSize])
		n.buffer = grown
	}

	copy(n.buffer[e.cursor:], buf)
	e.cursor += len(buf)
	if e.cursor > n.logicalSize {
		n.logicalSize = e.cursor
	}

	fs.metrics.recordBytesWritten(len(buf))
	return len(buf), nil
}

// Seek implements spec.md §4.3's seek(handle, offset, whence). The result is
// clamped to logical_size; seeking past end does not fail, and growing the
// file via seek is not supported.
func (fs *FileSystem) Seek(h int, offset int64, whence int) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || e.isDirectory {
		return -1, EBADHANDLE
	}

	var target int64
	switch whence {
	case SeekSet:
		target = offset
	case SeekCurrent:
		target = int64(e.cursor) + offset
	case SeekEnd:
		target = int64(e.node.logicalSize) + offset
	default:
		return -1, EINVALID
	}

	if target < 0 {
		return -1, EINVALID
	}
	if target > int64(e.node.logicalSize) {
		target = int64(e.node.logicalSize)
	}

	e.cursor = int(target)
	return target, nil
}

// Tell implements spec.md §4.3's tell(handle).
func (fs *FileSystem) Tell(h int) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || e.isDirectory {
		return -1, EBADHANDLE
	}
	return e.cursor, nil
}

// Total implements spec.md §4.3's total(handle).
func (fs *FileSystem) Total(h int) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || e.isDirectory {
		return -1, EBADHANDLE
	}
	return e.node.logicalSize, nil
}

// Readdir implements spec.md §4.3's readdir(handle).
func (fs *FileSystem) Readdir(h int) (*Dirent, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil {
		return nil, EBADHANDLE
	}
	return e.readdir()
}

// Rewinddir implements spec.md §4.3's rewinddir(handle).
func (fs *FileSystem) Rewinddir(h int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || !e.isDirectory {
		return EBADHANDLE
	}
	e.rewinddir()
	return nil
}

// Stat implements spec.md §4.3's stat(path). The root path is handled
// without traversal or acquiring the mutex, as specified.
func (fs *FileSystem) Stat(path string) (Stat, error) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return statNode(fs.root, fs.cfg.StatDeviceTag), nil
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := resolveAny(fs.root, path)
	if err != nil {
		return Stat{}, err
	}
	return statNode(n, fs.cfg.StatDeviceTag), nil
}

// Fstat implements spec.md §4.3's fstat(handle).
func (fs *FileSystem) Fstat(h int) (Stat, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil {
		return Stat{}, EBADHANDLE
	}
	return statNode(e.node, fs.cfg.StatDeviceTag), nil
}

func statNode(n *node, dev uint32) Stat {
	if n.isDir() {
		return Stat{
			Dev:     dev,
			Mode:    os.ModeDir | 0777,
			Size:    -1,
			Nlink:   2,
			Blksize: 1024,
			Blocks:  0,
		}
	}

	capacity := len(n.buffer)
	return Stat{
		Dev:     dev,
		Mode:    0666,
		Size:    int64(capacity),
		Nlink:   1,
		Blksize: 1024,
		Blocks:  (capacity + 1023) / 1024,
	}
}

// Unlink implements spec.md §4.3's unlink(path). Succeeds only for a file
// with a zero use count.
func (fs *FileSystem) Unlink(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := resolve(fs.root, path, false)
	if err != nil {
		return err
	}
	if n.useCount != 0 {
		return EBUSY
	}
	if n.parent == nil {
		// Only the root has no parent, and the root is never a file, so
		// resolve(..., false) above could never have returned it — this is
		// an invariant, not a reachable user error.
		panic("ramfs: unlink resolved a parentless node")
	}

	n.parent.removeChild(n)
	return nil
}

// Mmap implements spec.md §4.3's mmap(handle): a borrowed view of the file's
// content buffer, stable only until a write on the same node reallocates it.
func (fs *FileSystem) Mmap(h int) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil || e.isDirectory {
		return nil, EBADHANDLE
	}
	return e.node.buffer, nil
}

// Fcntl implements spec.md §4.3's fcntl(handle, cmd, ...). Only
// FcntlGetFlags is meaningful; the Fd-flags commands are accepted but
// inert, matching the documented behavior.
func (fs *FileSystem) Fcntl(h int, cmd FcntlCmd, arg int) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e := fs.handles.get(h)
	if e == nil {
		return 0, EBADHANDLE
	}

	switch cmd {
	case FcntlGetFlags:
		return int(e.openFlags), nil
	case FcntlSetFlags, FcntlGetFdFlags, FcntlSetFdFlags:
		return 0, nil
	default:
		return 0, EINVALID
	}
}
