package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		expectErr bool
	}{
		{
			name:      "close with nil DB",
			setupDB:   false,
			expectErr: false,
		},
		{
			name:      "close with open DB",
			setupDB:   true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			err := base.Close()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql:       "CREATE TABLE users (id INT)",
			expectErr: false,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "query without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "query success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name"}).
					AddRow(1, "alice").
					AddRow(2, "bob")
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			sql:       "SELECT id, name FROM users",
			expectErr: false,
		},
		{
			name:    "query with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			rows, err := base.Query(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				assert.Nil(t, rows)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, rows)
				defer func() { _ = rows.Close() }()
			}
		})
	}
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	tests := []struct {
		name     string
		setupDB  bool
		expected bool
	}{
		{
			name:     "not connected",
			setupDB:  false,
			expected: false,
		},
		{
			name:     "connected",
			setupDB:  true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, _, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				base.DB = db
			}

			assert.Equal(t, tt.expected, base.IsConnected())
		})
	}
}

var versionDialect = dialect.NewDialect("versioned").
	VersionQuery("SELECT version()").
	Build()

func TestBaseSQLAdapter_ServerVersion(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// Exactly one query: the second call is served from the cache.
	mock.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("8.0.36-log"))

	base := &BaseSQLAdapter{DB: db, SpatialDialect: versionDialect}

	v1, err := base.ServerVersion(ctx)
	require.NoError(t, err)
	v2, err := base.ServerVersion(ctx)
	require.NoError(t, err)

	assert.Equal(t, core.Version{Major: 8, Minor: 0, Patch: 36}, v1)
	assert.Equal(t, v1, v2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_ServerVersionNotCachedOnError(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT version()").WillReturnError(assert.AnError)
	mock.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("1.1.3"))

	base := &BaseSQLAdapter{DB: db, SpatialDialect: versionDialect}

	_, err = base.ServerVersion(ctx)
	require.Error(t, err)

	v, err := base.ServerVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.1.3", v.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_AttachResetsVersion(t *testing.T) {
	ctx := context.Background()
	first, mock1, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	second, mock2, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	mock1.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.5.9"))
	mock2.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.45.1"))

	base := &BaseSQLAdapter{SpatialDialect: versionDialect}
	base.Attach(first, core.AdapterConfig{Type: "sqlite"})
	v, err := base.ServerVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.5.9", v.String())

	base.Attach(second, core.AdapterConfig{Type: "sqlite"})
	v, err = base.ServerVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.45.1", v.String())
}

func TestBaseSQLAdapter_ServerVersionWithoutDialect(t *testing.T) {
	base := &BaseSQLAdapter{}
	_, err := base.ServerVersion(context.Background())
	assert.ErrorIs(t, err, dialect.ErrDialectRequired)
}

func TestParams(t *testing.T) {
	type params struct {
		Extension string   `mapstructure:"extension"`
		Init      bool     `mapstructure:"init_metadata"`
		Loads     []string `mapstructure:"loads"`
	}

	tests := []struct {
		name    string
		input   map[string]any
		want    params
		wantErr string
	}{
		{
			name: "nil params keeps defaults",
			want: params{Extension: "mod_spatialite"},
		},
		{
			name:  "values decoded",
			input: map[string]any{"extension": "/opt/lib/mod_spatialite.so", "init_metadata": "true", "loads": []any{"a"}},
			want:  params{Extension: "/opt/lib/mod_spatialite.so", Init: true, Loads: []string{"a"}},
		},
		{
			name:    "unknown key rejected",
			input:   map[string]any{"extnesion": "x"},
			wantErr: "invalid sqlite params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := params{Extension: "mod_spatialite"}
			err := Params(core.AdapterConfig{Type: "sqlite", Params: tt.input}, &got)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
