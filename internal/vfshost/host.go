// Package vfshost is a minimal stand-in for the external VFS registry that
// spec.md treats as out of scope: a real kernel keeps a table mapping mount
// names to operation tables, and the engine's Init/Shutdown never reach into
// it directly. This package gives cmd/ramfsctl something concrete to
// register against without pulling the engine itself into that concern.
package vfshost

import (
	"fmt"
	"sync"

	"github.com/kallisti-go/ramfs/internal/ramfs"
)

// Host is a process-local registry of mounted operation tables, keyed by
// mount name. It is safe for concurrent use.
type Host struct {
	mu     sync.RWMutex
	mounts map[string]*ramfs.OperationTable
}

// New returns an empty Host.
func New() *Host {
	return &Host{mounts: make(map[string]*ramfs.OperationTable)}
}

// Register binds name to ops. It fails if name is already mounted.
func (h *Host) Register(name string, ops *ramfs.OperationTable) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.mounts[name]; exists {
		return fmt.Errorf("vfshost: %q already mounted", name)
	}
	h.mounts[name] = ops
	return nil
}

// Deregister removes name, if present. It is not an error to deregister a
// name that was never mounted.
func (h *Host) Deregister(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.mounts, name)
}

// Lookup returns the operation table mounted under name, if any.
func (h *Host) Lookup(name string) (*ramfs.OperationTable, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ops, ok := h.mounts[name]
	return ops, ok
}
