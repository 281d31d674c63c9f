package sourcecontrol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/confsync/confsync/internal/git"
	gitmocks "github.com/confsync/confsync/internal/git/mocks"
)

func TestRunner_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	runner, _, _ := newTestRunner(t)
	_, remote := testRemote(t, map[string]string{
		"README.md":             "# Configs\n",
		"configs/orders.json":   "{\n  \"name\": \"orders\",\n  \"version\": \"1.0\",\n  \"spec\": {}\n}\n",
		"configs/payments.json": "{\n  \"name\": \"payments\",\n  \"version\": \"2.1\",\n  \"spec\": {}\n}\n",
		"configs/notes.txt":     "not a config\n",
	})

	apps, err := runner.List(ctx, ListRequest{Namespace: testNamespace, Repo: remote})
	require.NoError(t, err)
	require.Len(t, apps, 2)

	// Directory enumeration is sorted by file name.
	assert.Equal(t, "orders", apps[0].Name)
	assert.Equal(t, "payments", apps[1].Name)
	for _, app := range apps {
		assert.Len(t, app.FileHash, 40, "app %s", app.Name)
	}
}

func TestRunner_List_EmptyDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	runner, _, _ := newTestRunner(t)
	_, remote := testRemote(t, map[string]string{"configs/.gitkeep": ""})

	apps, err := runner.List(ctx, ListRequest{Namespace: testNamespace, Repo: remote})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestRunner_List_MissingBaseDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	runner, _, _ := newTestRunner(t)
	_, remote := testRemote(t, map[string]string{"README.md": "# Configs\n"})

	_, err := runner.List(ctx, ListRequest{Namespace: testNamespace, Repo: remote})
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "expected not found error, got %v", err)
}

func TestRunner_List_BaseIsNotADirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	runner, _, _ := newTestRunner(t)
	_, remote := testRemote(t, map[string]string{"configs": "a file, not a directory\n"})

	_, err := runner.List(ctx, ListRequest{Namespace: testNamespace, Repo: remote})
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "expected not found error, got %v", err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestRunner_List_SkipsUntrackedFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A real clone never has untracked files, so the repository handle is
	// mocked to report one file missing from the commit tree.
	head := strings.Repeat("a", 40)
	trackedHash := strings.Repeat("b", 40)
	base := filepath.Join(t.TempDir(), "configs")
	require.NoError(t, os.MkdirAll(base, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(base, "orders.json"), []byte("{}"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(base, "untracked.json"), []byte("{}"), 0600))

	repo := gitmocks.NewMockRepository(ctrl)
	repo.EXPECT().CloneRemote(gomock.Any()).Return(head, nil)
	repo.EXPECT().BasePath().Return(base)
	repo.EXPECT().FileRelativePath("orders.json").Return("configs/orders.json")
	repo.EXPECT().FileHash("configs/orders.json", head).Return(trackedHash, nil)
	repo.EXPECT().FileRelativePath("untracked.json").Return("configs/untracked.json")
	repo.EXPECT().FileHash("configs/untracked.json", head).
		Return("", fmt.Errorf("configs/untracked.json at commit %s: %w", head, git.ErrFileNotFound))
	repo.EXPECT().Close().Return(nil)

	factory := gitmocks.NewMockFactory(ctrl)
	factory.EXPECT().Open(gomock.Any(), testNamespace, gomock.Any()).Return(repo, nil)

	runner := NewRunner(factory, nil)
	require.NoError(t, runner.Start(ctx))

	apps, err := runner.List(ctx, ListRequest{Namespace: testNamespace})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "orders", apps[0].Name)
	assert.Equal(t, trackedHash, apps[0].FileHash)
}

func TestRunner_List_HashLookupFailureAborts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head := strings.Repeat("a", 40)
	base := filepath.Join(t.TempDir(), "configs")
	require.NoError(t, os.MkdirAll(base, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(base, "orders.json"), []byte("{}"), 0600))

	repo := gitmocks.NewMockRepository(ctrl)
	repo.EXPECT().CloneRemote(gomock.Any()).Return(head, nil)
	repo.EXPECT().BasePath().Return(base)
	repo.EXPECT().FileRelativePath("orders.json").Return("configs/orders.json")
	repo.EXPECT().FileHash("configs/orders.json", head).Return("", fmt.Errorf("object database corrupt"))
	repo.EXPECT().Close().Return(nil)

	factory := gitmocks.NewMockFactory(ctrl)
	factory.EXPECT().Open(gomock.Any(), testNamespace, gomock.Any()).Return(repo, nil)

	runner := NewRunner(factory, nil)
	require.NoError(t, runner.Start(ctx))

	_, err := runner.List(ctx, ListRequest{Namespace: testNamespace})
	require.Error(t, err)
	assert.True(t, IsGitOperation(err), "expected git operation error, got %v", err)
}
