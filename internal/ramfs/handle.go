package ramfs

// Dirent is the scratch directory-entry spec.md §4.3's readdir fills and
// returns a borrowed pointer to. Time is always zero; the data model has no
// timestamp field (spec.md §3 lists none for Node).
type Dirent struct {
	Name string
	Time int64
	Attr uint8
	Size int64
}

// DirentDirectory is the "D" attribute bit set on directory entries.
const DirentDirectory uint8 = 1 << 0

// handleEntry is a slot in the handle table (spec.md §3, "Handle").
type handleEntry struct {
	node        *node
	isDirectory bool
	openFlags   OpenFlags

	// File cursor: byte offset in [0, node.logicalSize].
	cursor int

	// Directory cursor: the next child to yield, or nil at end. Snapshotted
	// one step ahead of the entry about to be yielded (see readdir below),
	// so unlinking the entry that was just returned can never invalidate an
	// in-progress enumeration (spec.md §9's open question on this is
	// resolved that way — see DESIGN.md).
	dirCursor *node

	scratch Dirent
}

func direntFor(n *node) Dirent {
	d := Dirent{Name: n.name, Time: 0}
	if n.isDir() {
		d.Attr = DirentDirectory
		d.Size = -1
	} else {
		d.Size = int64(n.logicalSize)
	}
	return d
}

// readdir implements spec.md §4.3's readdir for a single directory handle.
func (h *handleEntry) readdir() (*Dirent, error) {
	if !h.isDirectory || h.dirCursor == nil {
		return nil, EBADHANDLE
	}

	cur := h.dirCursor
	h.dirCursor = siblingAfter(h.node, cur)
	h.scratch = direntFor(cur)
	return &h.scratch, nil
}

func (h *handleEntry) rewinddir() {
	h.dirCursor = firstChild(h.node)
}

func firstChild(dir *node) *node {
	if len(dir.children) == 0 {
		return nil
	}
	return dir.children[0]
}

// siblingAfter finds the child following c in dir's child list. If c has
// since been unlinked, iteration simply ends rather than guessing at where
// it "would" have continued — unspecified by the source, so this
// implementation documents its choice (spec.md §9).
func siblingAfter(dir *node, c *node) *node {
	for i, ch := range dir.children {
		if ch == c {
			if i+1 < len(dir.children) {
				return dir.children[i+1]
			}
			return nil
		}
	}
	return nil
}

// handleTable is the fixed-capacity array of spec.md §4.2. Handle 0 is
// reserved; valid handles are in [1, len(slots)).
type handleTable struct {
	slots []*handleEntry
}

func newHandleTable(capacity int) *handleTable {
	return &handleTable{slots: make([]*handleEntry, capacity)}
}

// alloc scans linearly from index 1 for the first free slot (spec.md §4.2).
func (t *handleTable) alloc(e *handleEntry) (int, error) {
	for i := 1; i < len(t.slots); i++ {
		if t.slots[i] == nil {
			t.slots[i] = e
			return i, nil
		}
	}
	return 0, ETOOMANYHANDLES
}

func (t *handleTable) get(h int) *handleEntry {
	if h <= 0 || h >= len(t.slots) {
		return nil
	}
	return t.slots[h]
}

// release frees the slot, returning the entry that occupied it (nil if the
// handle was already invalid).
func (t *handleTable) release(h int) *handleEntry {
	e := t.get(h)
	if e == nil {
		return nil
	}
	t.slots[h] = nil
	return e
}
