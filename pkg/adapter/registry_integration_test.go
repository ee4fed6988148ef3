package adapter_test

import (
	"testing"

	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leapgeo/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapgeo/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapgeo/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapgeo/pkg/adapters/sqlite"
)

func TestListAdapters(t *testing.T) {
	adapters := adapter.ListAdapters()

	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, adapters, name, "%s should be in adapter list", name)
	}
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"duckdb registered", "duckdb", true},
		{"postgres registered", "postgres", true},
		{"postgis alias", "postgis", true},
		{"sqlite registered", "sqlite", true},
		{"spatialite alias", "spatialite", true},
		{"mysql registered", "mysql", true},
		{"mariadb alias", "mariadb", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.IsRegistered(tt.adapterName)
			assert.Equal(t, tt.expected, got, "IsRegistered(%q)", tt.adapterName)
		})
	}
}

func TestNewAdapter_DialectPerType(t *testing.T) {
	tests := []struct {
		typ     string
		dialect string
	}{
		{"sqlite", "spatialite"},
		{"spatialite", "spatialite"},
		{"postgres", "postgis"},
		{"mysql", "mysql"},
		{"duckdb", "duckdb"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			adp, err := adapter.NewAdapter(core.AdapterConfig{Type: tt.typ}, nil)
			require.NoError(t, err)
			require.NotNil(t, adp.Dialect())
			assert.Equal(t, tt.dialect, adp.Dialect().Name)
		})
	}
}

func TestNewAdapter_UnknownType(t *testing.T) {
	cfg := core.AdapterConfig{
		Type: "unknown_adapter",
	}

	_, err := adapter.NewAdapter(cfg, nil)
	require.Error(t, err, "NewAdapter(unknown_adapter) should fail")

	var unknownErr *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)

	assert.Equal(t, "unknown_adapter", unknownErr.Type, "error type")
	assert.Contains(t, unknownErr.Available, "sqlite", "Available adapters should include sqlite")
}
