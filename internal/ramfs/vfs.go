package ramfs

// OperationTable is a struct-of-function-pointers binding a FileSystem's
// methods to the names a VFS host registry dispatches by, the same shape
// the teacher borrows from FUSE's operation-table convention
// (fuseutil.FileSystem): rather than requiring every host to import this
// package's concrete type, a host can hold just the functions it calls.
type OperationTable struct {
	Open      func(path string, flags OpenFlags) (int, error)
	Close     func(handle int) error
	Read      func(handle int, buf []byte) (int, error)
	Write     func(handle int, buf []byte) (int, error)
	Seek      func(handle int, offset int64, whence int) (int64, error)
	Tell      func(handle int) (int, error)
	Total     func(handle int) (int, error)
	Readdir   func(handle int) (*Dirent, error)
	Rewinddir func(handle int) error
	Stat      func(path string) (Stat, error)
	Fstat     func(handle int) (Stat, error)
	Unlink    func(path string) error
	Mmap      func(handle int) ([]byte, error)
	Fcntl     func(handle int, cmd FcntlCmd, arg int) (int, error)
}

// NewOperationTable binds fs's methods into an OperationTable suitable for
// registration with a VFS host.
func NewOperationTable(fs *FileSystem) *OperationTable {
	return &OperationTable{
		Open:      fs.Open,
		Close:     fs.Close,
		Read:      fs.Read,
		Write:     fs.Write,
		Seek:      fs.Seek,
		Tell:      fs.Tell,
		Total:     fs.Total,
		Readdir:   fs.Readdir,
		Rewinddir: fs.Rewinddir,
		Stat:      fs.Stat,
		Fstat:     fs.Fstat,
		Unlink:    fs.Unlink,
		Mmap:      fs.Mmap,
		Fcntl:     fs.Fcntl,
	}
}
