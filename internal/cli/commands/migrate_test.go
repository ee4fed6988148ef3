package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migrationStates(t *testing.T, out string) map[string]string {
	t.Helper()
	var infos []MigrationInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	states := make(map[string]string, len(infos))
	for _, m := range infos {
		states[m.Column] = m.State
	}
	return states
}

func TestMigrateCommand_UpStatusDown(t *testing.T) {
	cfg := withOutput(testConfig(t), "json")
	db := openTarget(t, cfg)

	out, err := execute(t, cfg, NewMigrateCommand(), "status")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"roads.geom": "pending", "parcels.shape": "pending"}, migrationStates(t, out))

	out, err = execute(t, cfg, NewMigrateCommand(), "up")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"roads.geom": "up", "parcels.shape": "up"}, migrationStates(t, out))
	assert.True(t, tableExists(t, db, "geo_roads_geom"))
	assert.True(t, tableExists(t, db, "geo_parcels_shape"))
	assert.True(t, tableExists(t, db, "leapgeo_db_version"))

	out, err = execute(t, cfg, NewMigrateCommand(), "status")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"roads.geom": "applied", "parcels.shape": "applied"}, migrationStates(t, out))

	out, err = execute(t, cfg, NewMigrateCommand(), "down")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"parcels.shape": "down"}, migrationStates(t, out))
	assert.False(t, tableExists(t, db, "geo_parcels_shape"))
	assert.True(t, tableExists(t, db, "geo_roads_geom"))

	out, err = execute(t, cfg, NewMigrateCommand(), "down", "--all")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"roads.geom": "down"}, migrationStates(t, out))
	assert.False(t, tableExists(t, db, "geo_roads_geom"))
	assert.False(t, tableExists(t, db, "idx_roads_geom"))
}

func TestMigrateCommand_UpIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	_, err := execute(t, cfg, NewMigrateCommand(), "up")
	require.NoError(t, err)

	out, err := execute(t, cfg, NewMigrateCommand(), "up")
	require.NoError(t, err)
	assert.Contains(t, out, "no pending columns")
}

func TestMigrateCommand_DownWithNothingApplied(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, NewMigrateCommand(), "down")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to roll back")
}

func TestMigrateCommand_FailureReportsPartial(t *testing.T) {
	cfg := withOutput(testConfig(t), "json")
	db := openTarget(t, cfg)
	_, err := db.Exec("CREATE TABLE geo_parcels_shape (srid INTEGER)")
	require.NoError(t, err)

	out, err := execute(t, cfg, NewMigrateCommand(), "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed")
	assert.NotContains(t, out, "Usage:")

	var infos []MigrationInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "roads.geom", infos[0].Column)
	assert.Empty(t, infos[0].Error)
	assert.Equal(t, "parcels.shape", infos[1].Column)
	assert.Contains(t, infos[1].Error, "register statement #1 failed")
}
