package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-site-backend/internal/models"
)

func TestImportRunLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewImportRunRepository(newTestDB(t))

	run, err := repo.Start(ctx, models.RunKindStores, "stores.xlsx", 3)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusProcessing, run.Status)

	run.ProcessedCount = 3
	run.SucceededCount = 2
	run.FailedCount = 1
	require.NoError(t, repo.Complete(ctx, run))

	got, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	assert.Equal(t, 2, got.SucceededCount)
	assert.Equal(t, 1, got.FailedCount)
	assert.NotNil(t, got.CompletedAt)
}

func TestLogoHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewImportRunRepository(newTestDB(t))
	run, err := repo.Start(ctx, models.RunKindLogos, "", 1)
	require.NoError(t, err)

	require.NoError(t, repo.LogLogoChange(ctx, &models.LogoAuditLog{
		RunID: run.ID, StoreID: 7, FileName: "zara.png", NewLogo: "https://cdn/x.png", Score: 100,
	}))
	logs, err := repo.LogoHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "zara.png", logs[0].FileName)
}
