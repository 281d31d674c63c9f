package git

import (
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedFs_FileCount(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{Fs: memfs.New(), MaxFiles: 2, TotalFileSize: 1024}

	_, err := fs.Create("one")
	require.NoError(t, err)
	_, err = fs.Create("two")
	require.NoError(t, err)

	_, err = fs.Create("three")
	require.ErrorIs(t, err, ErrTooManyFiles)
}

func TestLimitedFs_OpenFile(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{Fs: memfs.New(), MaxFiles: 1, TotalFileSize: 1024}

	_, err := fs.OpenFile("one", os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	// Opening an existing file for reading does not count against the limit.
	_, err = fs.Open("one")
	require.NoError(t, err)

	_, err = fs.OpenFile("two", os.O_CREATE|os.O_WRONLY, 0644)
	require.ErrorIs(t, err, ErrTooManyFiles)
}

func TestLimitedFs_TotalSize(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{Fs: memfs.New(), MaxFiles: 10, TotalFileSize: 10}

	f, err := fs.Create("one")
	require.NoError(t, err)

	n, err := f.Write([]byte("12345"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = f.Write([]byte("678901"))
	require.ErrorIs(t, err, ErrCloneTooLarge)
}

func TestLimitedFs_SizeSpansFiles(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{Fs: memfs.New(), MaxFiles: 10, TotalFileSize: 8}

	first, err := fs.Create("one")
	require.NoError(t, err)
	_, err = first.Write([]byte("12345"))
	require.NoError(t, err)

	second, err := fs.Create("two")
	require.NoError(t, err)
	_, err = second.Write([]byte("12345"))
	require.ErrorIs(t, err, ErrCloneTooLarge)
}

func TestLimitedFs_TempFile(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{Fs: memfs.New(), MaxFiles: 1, TotalFileSize: 1024}

	_, err := fs.TempFile("", "tmp")
	require.NoError(t, err)

	_, err = fs.TempFile("", "tmp")
	require.ErrorIs(t, err, ErrTooManyFiles)
}

func TestLimitedFs_Chroot(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{Fs: memfs.New(), MaxFiles: 1, TotalFileSize: 1024}

	_, err := fs.Create("one")
	require.NoError(t, err)

	chrooted, err := fs.Chroot("sub")
	require.NoError(t, err)

	// Each view carries its own quota.
	_, err = chrooted.Create("two")
	require.NoError(t, err)
}
