package vfshost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kallisti-go/ramfs/internal/ramfs"
)

func TestRegisterAndLookup(t *testing.T) {
	h := New()
	fs := ramfs.New(ramfs.DefaultConfig())
	require.NoError(t, fs.Init())

	ops := ramfs.NewOperationTable(fs)
	require.NoError(t, h.Register("/ram", ops))

	got, ok := h.Lookup("/ram")
	require.True(t, ok)
	assert.Same(t, ops, got)
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	h := New()
	fs := ramfs.New(ramfs.DefaultConfig())
	require.NoError(t, fs.Init())
	ops := ramfs.NewOperationTable(fs)

	require.NoError(t, h.Register("/ram", ops))
	err := h.Register("/ram", ops)
	assert.Error(t, err)
}

func TestDeregisterUnknownNameIsNoop(t *testing.T) {
	h := New()
	h.Deregister("/nope")

	_, ok := h.Lookup("/nope")
	assert.False(t, ok)
}
