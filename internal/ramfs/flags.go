package ramfs

// OpenFlags is the bitfield accepted by Open: a two-bit access mode plus
// auxiliary bits, mirroring spec.md §4.3's "flags is a bitfield carrying a
// mode ... and auxiliary bits".
type OpenFlags uint32

const (
	modeMask OpenFlags = 0x3

	// ReadOnly, WriteOnly and ReadWrite are mutually exclusive access modes.
	ReadOnly  OpenFlags = 0x0
	WriteOnly OpenFlags = 0x1
	ReadWrite OpenFlags = 0x2

	// Directory requests a directory handle; valid only with ReadOnly.
	Directory OpenFlags = 1 << 4
	// Append seeks a newly-opened file handle to end-of-file.
	Append OpenFlags = 1 << 5
	// Truncate resets a newly-opened file's contents to empty.
	Truncate OpenFlags = 1 << 6
)

func (f OpenFlags) mode() OpenFlags { return f & modeMask }

func (f OpenFlags) writable() bool {
	m := f.mode()
	return m == WriteOnly || m == ReadWrite
}

func (f OpenFlags) directory() bool { return f&Directory != 0 }
func (f OpenFlags) append() bool    { return f&Append != 0 }
func (f OpenFlags) truncate() bool  { return f&Truncate != 0 }
