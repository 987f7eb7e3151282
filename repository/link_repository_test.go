package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompihq/kompi-links/models"
	"github.com/kompihq/kompi-links/repository"
	apptesting "github.com/kompihq/kompi-links/testing"
	"github.com/kompihq/kompi-links/utils"
)

// withTestDB provisions a disposable database for one test and skips
// when no Postgres server is reachable, so the suite stays runnable
// without infrastructure.
func withTestDB(t *testing.T, testFunc func(t *testing.T, tdb *apptesting.TestDB)) {
	t.Helper()
	tdb, err := apptesting.SetupTestDB()
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	defer func() {
		if err := tdb.TeardownTestDB(); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()
	testFunc(t, tdb)
}

func TestLinkRepositoryCodeLookups(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewLinkRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		active, err := fixtures.CreateTestLink(workspace.ID, "abc123")
		require.NoError(t, err)
		inactive, err := fixtures.CreateTestLink(workspace.ID, "off999")
		require.NoError(t, err)
		inactive.IsActive = false
		require.NoError(t, repo.Update(ctx, inactive))

		found, err := repo.ByCode(ctx, "abc123")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, active.ID, found.ID)

		found, err = repo.ByUUID(ctx, active.UUID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, active.ID, found.ID)

		found, err = repo.ByUUID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)

		// ByCode sees disabled rows; ActiveByCode treats them exactly
		// like unknown codes.
		found, err = repo.ByCode(ctx, "off999")
		require.NoError(t, err)
		require.NotNil(t, found)

		found, err = repo.ActiveByCode(ctx, "abc123")
		require.NoError(t, err)
		require.NotNil(t, found)

		found, err = repo.ActiveByCode(ctx, "off999")
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.ActiveByCode(ctx, "nosuch")
		require.NoError(t, err)
		assert.Nil(t, found)

		exists, err := repo.CodeExists(ctx, "off999")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.CodeExists(ctx, "nosuch")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestLinkRepositoryDuplicateCode(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewLinkRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLink(workspace.ID, "abc123")
		require.NoError(t, err)

		dup := &models.Link{
			UUID:        uuid.New(),
			WorkspaceID: workspace.ID,
			Code:        "abc123",
			TargetURL:   "https://example.com/other",
			IsActive:    true,
		}
		err = repo.Save(ctx, dup)
		require.Error(t, err)
		assert.True(t, repository.IsUniqueViolation(err))
	})
}

func TestLinkRepositoryIncrementClicks(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewLinkRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(workspace.ID, "")
		require.NoError(t, err)

		require.NoError(t, repo.IncrementClicks(ctx, link.ID))
		require.NoError(t, repo.IncrementClicks(ctx, link.ID))

		found, err := repo.ByID(ctx, link.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(2), found.Clicks)

		assert.Error(t, repo.IncrementClicks(ctx, 999999))
	})
}

func TestLinkRepositoryRaiseClicksTo(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewLinkRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(workspace.ID, "")
		require.NoError(t, err)

		raised, err := repo.RaiseClicksTo(ctx, link.ID, 5)
		require.NoError(t, err)
		assert.True(t, raised)

		// Raising never lowers and never re-applies an equal count.
		raised, err = repo.RaiseClicksTo(ctx, link.ID, 3)
		require.NoError(t, err)
		assert.False(t, raised)
		raised, err = repo.RaiseClicksTo(ctx, link.ID, 5)
		require.NoError(t, err)
		assert.False(t, raised)

		found, err := repo.ByID(ctx, link.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), found.Clicks)
	})
}

func TestLinkRepositoryUpdateLeavesCounterAlone(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewLinkRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(workspace.ID, "abc123")
		require.NoError(t, err)

		// Stale in-memory copy, as an edit handler would hold while
		// visits keep incrementing the counter in the store.
		stale, err := repo.ByID(ctx, link.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), stale.Clicks)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.IncrementClicks(ctx, link.ID))
		}

		stale.Title = utils.ToPtr("renamed")
		stale.IsActive = false
		require.NoError(t, repo.Update(ctx, stale))

		found, err := repo.ByID(ctx, link.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(3), found.Clicks)
		require.NotNil(t, found.Title)
		assert.Equal(t, "renamed", *found.Title)
		assert.False(t, found.IsActive)
	})
}

func TestLinkRepositoryDeleteWithEvents(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		linkRepo := repository.NewLinkRepository(tdb.DB)
		eventRepo := repository.NewClickEventRepository(tdb.DB)

		workspace, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(workspace.ID, "")
		require.NoError(t, err)
		keeper, err := fixtures.CreateTestLink(workspace.ID, "")
		require.NoError(t, err)

		_, err = fixtures.CreateClickSeries(link.ID, 3, time.Hour)
		require.NoError(t, err)
		_, err = fixtures.CreateClickSeries(keeper.ID, 2, time.Hour)
		require.NoError(t, err)

		require.NoError(t, linkRepo.DeleteWithEvents(ctx, link.ID))

		found, err := linkRepo.ByID(ctx, link.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
		count, err := eventRepo.CountByLink(ctx, link.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		// The other link's log is untouched.
		count, err = eventRepo.CountByLink(ctx, keeper.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		assert.Error(t, linkRepo.DeleteWithEvents(ctx, link.ID))
	})
}

func TestLinkRepositoryWorkspaceQueries(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *apptesting.TestDB) {
		ctx := apptesting.CreateTestContext()
		fixtures := apptesting.NewTestFixtures(tdb)
		repo := repository.NewLinkRepository(tdb.DB)

		first, err := fixtures.CreateTestWorkspace(models.PlanFree)
		require.NoError(t, err)
		second, err := fixtures.CreateTestWorkspace(models.PlanCreator)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = fixtures.CreateTestLink(first.ID, "")
			require.NoError(t, err)
		}
		_, err = fixtures.CreateTestLink(second.ID, "")
		require.NoError(t, err)

		count, err := repo.CountByWorkspace(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		rows, err := repo.ListByWorkspace(ctx, first.ID, 2, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		rows, err = repo.ListByWorkspace(ctx, first.ID, 2, 2)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		for _, row := range rows {
			assert.Equal(t, first.ID, row.WorkspaceID)
		}
	})
}
