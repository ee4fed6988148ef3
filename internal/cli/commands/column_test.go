package commands

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgeo/internal/state"
)

func TestColumnCommand_CreateAndDropFromFile(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, NewColumnCommand(), "create")
	require.NoError(t, err)
	assert.Contains(t, out, "create roads.geom (2 statements) ok")
	assert.Contains(t, out, "create parcels.shape (1 statements) ok")

	db := openTarget(t, cfg)
	assert.True(t, tableExists(t, db, "geo_roads_geom"))
	assert.True(t, tableExists(t, db, "idx_roads_geom"))
	assert.True(t, tableExists(t, db, "geo_parcels_shape"))

	out, err = execute(t, cfg, NewColumnCommand(), "drop")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "drop parcels.shape"), strings.Index(out, "drop roads.geom"),
		"columns are dropped in reverse order")
	assert.False(t, tableExists(t, db, "geo_roads_geom"))
	assert.False(t, tableExists(t, db, "idx_roads_geom"))
	assert.False(t, tableExists(t, db, "geo_parcels_shape"))

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(cfg.StatePath))
	defer func() { _ = store.Close() }()
	runs, err := store.ListHookRuns(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestColumnCommand_DryRun(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, NewColumnCommand(), "create", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE geo_roads_geom (srid INTEGER)")
	assert.Contains(t, out, "CREATE TABLE idx_roads_geom (pkid INTEGER)")

	db := openTarget(t, cfg)
	assert.False(t, tableExists(t, db, "geo_roads_geom"))
}

func TestColumnCommand_FlagsJSON(t *testing.T) {
	cfg := withOutput(testConfig(t), "json")

	out, err := execute(t, cfg, NewColumnCommand(),
		"create", "--table", "wells", "--column", "loc", "--srid", "4326", "--type", "POINT", "--no-journal")
	require.NoError(t, err)

	var results []ColumnResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "wells.loc", results[0].Column)
	assert.Equal(t, "create", results[0].Direction)
	assert.Equal(t, []string{"CREATE TABLE geo_wells_loc (srid INTEGER)"}, results[0].Statements)
	assert.Empty(t, results[0].Error)
}

func TestColumnCommand_FailureStopsAndIsJournaled(t *testing.T) {
	cfg := testConfig(t)
	db := openTarget(t, cfg)
	_, err := db.Exec("CREATE TABLE geo_roads_geom (srid INTEGER)")
	require.NoError(t, err)

	out, err := execute(t, cfg, NewColumnCommand(), "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spatial column roads.geom: register statement #1 failed")
	assert.Contains(t, out, "create roads.geom (2 statements) FAILED")
	assert.NotContains(t, out, "parcels.shape", "later columns are not attempted")
	assert.False(t, tableExists(t, db, "idx_roads_geom"))

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(cfg.StatePath))
	defer func() { _ = store.Close() }()
	runs, err := store.ListHookRuns(context.Background(), "roads", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.StatusFailed, runs[0].Status)
	assert.Equal(t, 0, runs[0].Executed)
	assert.Equal(t, 2, runs[0].Planned)
}

func TestColumnCommand_MissingColumnsFile(t *testing.T) {
	cfg := testConfig(t)
	_, err := execute(t, cfg, NewColumnCommand(), "create", "--file", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read columns file")
}

func TestColumnCommand_UnknownTarget(t *testing.T) {
	cfg := testConfig(t)
	cfg.Target.Type = "oracle"
	_, err := execute(t, cfg, NewColumnCommand(), "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}
