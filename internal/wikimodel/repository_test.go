package wikimodel_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/wikimodel"
)

func TestNewRepositoryRequiresTupleFields(t *testing.T) {
	_, err := wikimodel.NewRepository(uuid.Nil, "github", "tangerg", "codewiki", "main", "")
	assert.Error(t, err)

	_, err = wikimodel.NewRepository(uuid.New(), "", "tangerg", "codewiki", "main", "")
	assert.Error(t, err)

	repo, err := wikimodel.NewRepository(uuid.New(), "github", "tangerg", "codewiki", "main", "")
	require.NoError(t, err)
	assert.False(t, repo.IsCloned)
}

func TestRepositoryMarkClonedAndSynced(t *testing.T) {
	repo, err := wikimodel.NewRepository(uuid.New(), "github", "tangerg", "codewiki", "main", "")
	require.NoError(t, err)

	repo.MarkCloned("/tmp/codewiki")
	assert.True(t, repo.IsCloned)
	assert.Equal(t, "/tmp/codewiki", repo.LocalPath)

	repo.MarkSynced()
	assert.NotNil(t, repo.LastSyncTime)
}
