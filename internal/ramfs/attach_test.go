package ramfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachIsZeroCopy(t *testing.T) {
	fs := newTestFS(t)

	buf := []byte("borrowed content")
	require.NoError(t, fs.Attach("/asset.bin", buf))

	h, err := fs.Open("/asset.bin", ReadOnly)
	require.NoError(t, err)

	read := make([]byte, len(buf))
	n, err := fs.Read(h, read)
	require.NoError(t, err)
	assert.Equal(t, buf, read[:n])

	// Mutating the caller's slice is visible through the node, proving no
	// copy was made at Attach time.
	buf[0] = 'X'
	read2 := make([]byte, len(buf))
	fs.Seek(h, 0, SeekSet)
	n, err = fs.Read(h, read2)
	require.NoError(t, err)
	assert.Equal(t, byte('X'), read2[0])
}

func TestAttachReplacesExistingUnopenedFile(t *testing.T) {
	fs := newTestFS(t)
	h, err := fs.Open("/f.txt", WriteOnly)
	require.NoError(t, err)
	_, err = fs.Write(h, []byte("old content"))
	require.NoError(t, err)
	require.NoError(t, fs.Close(h))

	require.NoError(t, fs.Attach("/f.txt", []byte("new")))

	rh, err := fs.Open("/f.txt", ReadOnly)
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := fs.Read(rh, buf)
	require.NoError(t, err)
	assert.Equal(t, "new", string(buf[:n]))
}

func TestAttachRejectsOpenFile(t *testing.T) {
	fs := newTestFS(t)
	h, err := fs.Open("/f.txt", WriteOnly)
	require.NoError(t, err)
	defer fs.Close(h)

	err = fs.Attach("/f.txt", []byte("x"))
	assert.ErrorIs(t, err, EBUSY)
}

func TestAttachRejectsExistingDirectory(t *testing.T) {
	fs := newTestFS(t)
	dh, err := fs.Open("/", Directory)
	require.NoError(t, err)
	defer fs.Close(dh)

	err = fs.Attach("/", []byte("x"))
	assert.ErrorIs(t, err, EINVALID)
}

func TestDetachReturnsOwnershipAndUnlinks(t *testing.T) {
	fs := newTestFS(t)
	buf := []byte("data")
	require.NoError(t, fs.Attach("/asset.bin", buf))

	got, err := fs.Detach("/asset.bin")
	require.NoError(t, err)
	assert.Equal(t, buf, got)

	_, err = fs.Stat("/asset.bin")
	assert.ErrorIs(t, err, ENOTFOUND)
}

func TestDetachInstallsPlaceholderBeforeUnlink(t *testing.T) {
	fs := New(Config{MaxHandles: 8, InitialFileCapacity: 16, ReallocSlack: 16, DetachPlaceholderCapacity: 5, MountName: "/ram"})
	require.NoError(t, fs.Init())

	buf := []byte("original")
	require.NoError(t, fs.Attach("/asset.bin", buf))

	n, err := resolve(fs.root, "/asset.bin", false)
	require.NoError(t, err)

	got, err := fs.Detach("/asset.bin")
	require.NoError(t, err)
	assert.Equal(t, buf, got)

	// The node itself (still reachable via our direct pointer, though no
	// longer in the tree) was left holding a fresh placeholder buffer, not
	// the slice that was just handed back to the caller.
	assert.Len(t, n.buffer, 5)
	assert.NotSame(t, &buf[0], &n.buffer[0])
}

func TestDetachRejectsInUse(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.Attach("/asset.bin", []byte("data")))

	h, err := fs.Open("/asset.bin", ReadOnly)
	require.NoError(t, err)
	defer fs.Close(h)

	_, err = fs.Detach("/asset.bin")
	assert.ErrorIs(t, err, EBUSY)
}
