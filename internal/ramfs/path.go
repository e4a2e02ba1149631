package ramfs

import "strings"

// resolveAny walks a slash-delimited path from start, looking up each
// segment case-insensitively (spec.md §4.1, "Path resolver"). A leading
// slash is stripped; an empty terminal segment (trailing slash, or the path
// being empty) means "the directory itself". Every intermediate segment must
// resolve to a directory. The terminal segment's kind is never checked here
// — callers that care (resolve) check it themselves, and callers that don't
// (Open) can tell a wrong-kind hit apart from a true miss.
func resolveAny(start *node, p string) (*node, error) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return start, nil
	}

	segs := strings.Split(p, "/")
	cur := start
	for i, seg := range segs {
		last := i == len(segs)-1

		if seg == "" {
			if !last {
				return nil, ENOTFOUND
			}
			return cur, nil
		}

		child := cur.lookupChild(seg)
		if child == nil {
			return nil, ENOTFOUND
		}

		if !last && !child.isDir() {
			return nil, ENOTFOUND
		}
		cur = child
	}

	return cur, nil
}

// resolve is resolveAny with an added requirement that the terminal node's
// kind match wantDir exactly — a kind mismatch is reported as not-found,
// never silently promoted (spec.md §4.1).
func resolve(start *node, p string, wantDir bool) (*node, error) {
	n, err := resolveAny(start, p)
	if err != nil {
		return nil, err
	}
	if n.isDir() != wantDir {
		return nil, ENOTFOUND
	}
	return n, nil
}

// splitParentLeaf resolves the directory portion of p and returns it along
// with the final path component as a borrowed view into p (spec.md §4.1,
// "Parent/leaf split"). If p contains no slash, the parent is start. The
// leaf must be non-empty; a trailing slash has no valid leaf.
func splitParentLeaf(start *node, p string) (parent *node, leaf string, err error) {
	p = strings.TrimPrefix(p, "/")

	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		if p == "" {
			return nil, "", EINVALID
		}
		return start, p, nil
	}

	leaf = p[idx+1:]
	if leaf == "" {
		return nil, "", EINVALID
	}

	parent, err = resolve(start, p[:idx], true)
	return
}
