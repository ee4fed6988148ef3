package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgeo/internal/state"
)

func TestHistoryCommand(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, NewHistoryCommand())
	require.NoError(t, err)
	assert.Equal(t, "no hook runs recorded\n", out)

	_, err = execute(t, cfg, NewColumnCommand(), "create")
	require.NoError(t, err)

	out, err = execute(t, withOutput(cfg, "json"), NewHistoryCommand(), "--table", "roads")
	require.NoError(t, err)
	var recs []state.HookRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "roads", recs[0].Table)
	assert.Equal(t, "create", recs[0].Direction)
	assert.Equal(t, state.StatusSuccess, recs[0].Status)
	assert.Equal(t, 2, recs[0].Executed)

	out, err = execute(t, cfg, NewHistoryCommand(), recs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "create roads.geom")
	assert.Contains(t, out, "CREATE TABLE idx_roads_geom (pkid INTEGER)")

	out, err = execute(t, withOutput(cfg, "json"), NewHistoryCommand(), "-n", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	assert.Len(t, recs, 1)

	out, err = execute(t, cfg, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "roads.geom")
	assert.Contains(t, out, "parcels.shape")
	assert.Contains(t, out, "2/2")
}

func TestHistoryCommand_UnknownRun(t *testing.T) {
	_, err := execute(t, testConfig(t), NewHistoryCommand(), "no-such-run")
	require.Error(t, err)
}
