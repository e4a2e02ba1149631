package ramfs

// Attach and Detach implement spec.md §4.4's zero-copy buffer bridge: a way
// for a caller that already owns a byte slice (a static asset, a buffer
// handed down from a lower driver) to splice it directly in as a file's
// content without a copy, and to later reclaim ownership of that slice
// before freeing or reusing it elsewhere.
//
// This mirrors the borrow/install discipline of the teacher's
// gcsproxy/mutable_content.go, which tracks a single content buffer and
// replaces it wholesale rather than merging writes in place. Here the
// "source" is external rather than a GCS object, but the ownership handoff
// is the same: after Attach, the node's buffer *is* the caller's slice, and
// the caller must not touch it again until Detach hands it back.

// Attach is spec.md §4.4's open(path, write-only|truncate) -> free node
// buffer -> install caller buffer -> close, in one call: buf is spliced
// directly in as the file's content (no copy), with logical size equal to
// len(buf) and capacity (the buffer's length) also len(buf). If path already names a
// file, its existing buffer is discarded and replaced, exactly as open with
// the truncate flag would; open's own exclusion gate still applies, so a
// file currently held open by any handle yields EBUSY rather than being
// clobbered. A directory at path is a kind mismatch, EINVALID, the same
// error open's own mismatch check would produce.
func (fs *FileSystem) Attach(path string, buf []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := resolveAny(fs.root, path)
	switch {
	case err != nil:
		parent, leaf, serr := splitParentLeaf(fs.root, path)
		if serr != nil {
			return serr
		}
		n = &node{name: leaf, kind: kindFile}
		parent.insertChild(n)

	case n.isDir():
		return EINVALID

	case n.openMode != modeNone:
		return EBUSY
	}

	n.buffer = buf
	n.logicalSize = len(buf)

	fs.logger.Debug("attach", "path", path, "bytes", len(buf))
	return nil
}

// Detach severs the node at path from the tree and returns its content
// buffer to the caller, who now owns it. The node must not be open by any
// handle. Per spec.md §4.4/§6, the node's buffer is replaced with a fresh
// DetachPlaceholderCapacity-sized placeholder before the node is unlinked,
// rather than leaving the about-to-be-freed node holding the slice the
// caller now owns.
func (fs *FileSystem) Detach(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := resolve(fs.root, path, false)
	if err != nil {
		return nil, err
	}
	if n.useCount != 0 {
		return nil, EBUSY
	}

	buf := n.buffer
	n.buffer = make([]byte, fs.cfg.DetachPlaceholderCapacity)
	n.logicalSize = 0
	n.parent.removeChild(n)

	fs.logger.Debug("detach", "path", path, "bytes", len(buf))
	return buf, nil
}
