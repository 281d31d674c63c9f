package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRemoteRepo(t *testing.T) {
	t.Parallel()

	remoteDir := CreateRemoteRepo(t, TestRemoteConfig{
		Files: map[string]string{
			"configs/orders.json": `{"name": "orders"}`,
			"README.md":           "# test",
		},
	})

	head := RemoteHead(t, remoteDir)
	require.Len(t, head, 40)

	assert.Equal(t, `{"name": "orders"}`, RemoteFileContent(t, remoteDir, "configs/orders.json"))
	assert.Equal(t, []string{"Seed repository"}, RemoteCommitMessages(t, remoteDir))
}

func TestCreateRemoteRepo_Empty(t *testing.T) {
	t.Parallel()

	remoteDir := CreateRemoteRepo(t, TestRemoteConfig{})

	head := RemoteHead(t, remoteDir)
	assert.Len(t, head, 40)
}
