package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompihq/kompi-links/models"
	"github.com/kompihq/kompi-links/repository"
	apptesting "github.com/kompihq/kompi-links/testing"
)

func TestWorkspaceRepositoryLookups(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewWorkspaceRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanCreator)
		require.NoError(t, err)

		found, err := repo.ByID(ctx, workspace.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, models.PlanCreator, found.Plan)

		found, err = repo.ByUUID(ctx, workspace.UUID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, workspace.ID, found.ID)

		found, err = repo.BySlug(ctx, workspace.Slug)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, workspace.ID, found.ID)

		found, err = repo.ByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, found)
		found, err = repo.ByUUID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
		found, err = repo.BySlug(ctx, "no-such-workspace")
		require.NoError(t, err)
		assert.Nil(t, found)

		count, err := repo.Count(ctx, models.WorkspaceFilter{Plan: &workspace.Plan})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(1))
	})
}
