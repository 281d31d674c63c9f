package git

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
)

var (
	// ErrTooManyFiles is returned when a clone creates more files than
	// the configured limit allows.
	ErrTooManyFiles = errors.New("clone exceeded the maximum file count")
	// ErrCloneTooLarge is returned when a clone writes more bytes than
	// the configured limit allows.
	ErrCloneTooLarge = errors.New("clone exceeded the maximum total size")
)

// LimitedFs wraps a billy filesystem and enforces limits on the number of
// files created and the total bytes written through it. It guards clone
// operations against oversized or maliciously crafted remotes.
type LimitedFs struct {
	Fs            billy.Filesystem
	MaxFiles      int64
	TotalFileSize int64

	fileCount atomic.Int64
	byteCount atomic.Int64
}

var _ billy.Filesystem = (*LimitedFs)(nil)

func (f *LimitedFs) countFile() error {
	if f.fileCount.Add(1) > f.MaxFiles {
		return ErrTooManyFiles
	}
	return nil
}

func (f *LimitedFs) Create(filename string) (billy.File, error) {
	if err := f.countFile(); err != nil {
		return nil, err
	}
	file, err := f.Fs.Create(filename)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: file, fs: f}, nil
}

func (f *LimitedFs) Open(filename string) (billy.File, error) {
	return f.Fs.Open(filename)
}

func (f *LimitedFs) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&os.O_CREATE != 0 {
		if err := f.countFile(); err != nil {
			return nil, err
		}
	}
	file, err := f.Fs.OpenFile(filename, flag, perm)
	if err != nil {
		return nil, err
	}
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return &limitedFile{File: file, fs: f}, nil
	}
	return file, nil
}

func (f *LimitedFs) Stat(filename string) (os.FileInfo, error) {
	return f.Fs.Stat(filename)
}

func (f *LimitedFs) Rename(oldpath, newpath string) error {
	return f.Fs.Rename(oldpath, newpath)
}

func (f *LimitedFs) Remove(filename string) error {
	return f.Fs.Remove(filename)
}

func (f *LimitedFs) Join(elem ...string) string {
	return f.Fs.Join(elem...)
}

func (f *LimitedFs) TempFile(dir, prefix string) (billy.File, error) {
	if err := f.countFile(); err != nil {
		return nil, err
	}
	file, err := f.Fs.TempFile(dir, prefix)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: file, fs: f}, nil
}

func (f *LimitedFs) ReadDir(path string) ([]os.FileInfo, error) {
	return f.Fs.ReadDir(path)
}

func (f *LimitedFs) MkdirAll(filename string, perm os.FileMode) error {
	return f.Fs.MkdirAll(filename, perm)
}

func (f *LimitedFs) Lstat(filename string) (os.FileInfo, error) {
	return f.Fs.Lstat(filename)
}

func (f *LimitedFs) Symlink(target, link string) error {
	if err := f.countFile(); err != nil {
		return err
	}
	return f.Fs.Symlink(target, link)
}

func (f *LimitedFs) Readlink(link string) (string, error) {
	return f.Fs.Readlink(link)
}

// Chroot returns a view rooted at path. The quota starts fresh for each
// view.
func (f *LimitedFs) Chroot(path string) (billy.Filesystem, error) {
	chrooted, err := f.Fs.Chroot(path)
	if err != nil {
		return nil, err
	}
	return &LimitedFs{Fs: chrooted, MaxFiles: f.MaxFiles, TotalFileSize: f.TotalFileSize}, nil
}

func (f *LimitedFs) Root() string {
	return f.Fs.Root()
}

type limitedFile struct {
	billy.File
	fs *LimitedFs
}

func (f *limitedFile) Write(p []byte) (int, error) {
	if f.fs.byteCount.Add(int64(len(p))) > f.fs.TotalFileSize {
		return 0, ErrCloneTooLarge
	}
	return f.File.Write(p)
}
