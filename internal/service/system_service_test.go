package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/testutil"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/version"
)

func TestSystemService_CheckHealth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	require.NoError(t, svc.CheckHealth(context.Background()))

	db.Close()
	assert.Error(t, svc.CheckHealth(context.Background()))
}

func TestSystemService_CheckVersion(t *testing.T) {
	svc := testutil.NewTestSystemService(t, testutil.SetupTestDB(t))

	info, err := svc.CheckVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, version.Version, info.AppVersion)
	assert.Equal(t, "2", info.DbVersion)
	assert.Equal(t, "2", info.LatestDbVersion)
	assert.False(t, info.MigrationNeeded)
	assert.Nil(t, info.MigrationMessage)
	assert.Equal(t, version.Features, info.Features)
}

func TestSystemService_CheckVersion_PendingMigration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, err := db.Exec(`DELETE FROM goose_db_version WHERE version_id = 2`)
	require.NoError(t, err)

	info, err := testutil.NewTestSystemService(t, db).CheckVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", info.DbVersion)
	assert.Equal(t, "2", info.LatestDbVersion)
	assert.True(t, info.MigrationNeeded)
	require.NotNil(t, info.MigrationMessage)
	assert.Contains(t, *info.MigrationMessage, "latest is 2")
}
