package ramfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertChildHeadOrder(t *testing.T) {
	dir := newDirNode("/")
	a := newFileNode("a.txt", 0)
	b := newFileNode("b.txt", 0)

	dir.insertChild(a)
	dir.insertChild(b)

	require.Len(t, dir.children, 2)
	assert.Same(t, b, dir.children[0])
	assert.Same(t, a, dir.children[1])
	assert.Same(t, dir, b.parent)
}

func TestLookupChildCaseInsensitive(t *testing.T) {
	dir := newDirNode("/")
	f := newFileNode("README.TXT", 0)
	dir.insertChild(f)

	assert.Same(t, f, dir.lookupChild("readme.txt"))
	assert.Same(t, f, dir.lookupChild("ReadMe.Txt"))
	assert.Nil(t, dir.lookupChild("other.txt"))
}

func TestRemoveChildClearsParent(t *testing.T) {
	dir := newDirNode("/")
	a := newFileNode("a.txt", 0)
	b := newFileNode("b.txt", 0)
	dir.insertChild(a)
	dir.insertChild(b)

	dir.removeChild(a)

	require.Len(t, dir.children, 1)
	assert.Same(t, b, dir.children[0])
	assert.Nil(t, a.parent)
}

func TestSameNameLengthMismatch(t *testing.T) {
	assert.False(t, sameName("abc", "ab"))
	assert.True(t, sameName("AbC", "abc"))
}
