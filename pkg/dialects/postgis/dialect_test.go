package postgis

import (
	"testing"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/spatialite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostGIS_Bindings(t *testing.T) {
	tests := []struct {
		op       dialect.Operation
		expected string
	}{
		{dialect.WithinDistance, "ST_DWithin"},
		{dialect.SVG, "ST_AsSVG"},
		{dialect.Length, "ST_Length"},
		{dialect.MbrMinX, "ST_XMin"},
		{IsValid, "ST_IsValid"},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			b, err := PostGIS.Resolve(tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b.FuncName())
		})
	}
}

func TestPostGIS_Unsupported(t *testing.T) {
	_, err := PostGIS.Resolve(dialect.FGF)
	assert.True(t, dialect.IsUnsupported(err))

	// Same name, different operation.
	_, err = PostGIS.Resolve(spatialite.IsValid)
	assert.True(t, dialect.IsUnsupported(err))
	_, err = spatialite.SpatiaLite.Resolve(IsValid)
	assert.True(t, dialect.IsUnsupported(err))
}

func TestPostGIS_WithinDistance(t *testing.T) {
	c := dialect.NewCompiler(PostGIS, PostGIS.Capabilities(core.MustParseVersion("16.2")))
	col := core.SpatialCol(core.SpatialColumn{Table: "roads", Column: "geom", SpatialIndex: true})

	e, err := c.Call(dialect.WithinDistance, col, core.Col("p", "geom"), core.Int(50))
	require.NoError(t, err)
	assert.Equal(t, "ST_DWithin(roads.geom, p.geom, 50)", c.SQL(e))
}

func TestPostGIS_MbrRelations(t *testing.T) {
	c := dialect.NewCompiler(PostGIS, dialect.Capabilities{})

	e, err := c.Call(dialect.MbrContains, core.Col("a", "geom"), core.Col("b", "geom"))
	require.NoError(t, err)
	assert.Equal(t, "ST_Contains(ST_Envelope(a.geom), ST_Envelope(b.geom))", c.SQL(e))

	_, err = c.Call(dialect.MbrContains, core.Col("a", "geom"))
	assert.ErrorIs(t, err, dialect.ErrArity)
}

func TestPostGIS_Lifecycle(t *testing.T) {
	col := core.SpatialColumn{Table: "roads", Column: "geom", SRID: 4326, GeometryType: "LINESTRING", Dimension: 2, SpatialIndex: true}
	caps := PostGIS.Capabilities(core.MustParseVersion("16.2"))
	require.True(t, caps.SpatialIndex)

	create := PostGIS.PlanCreate(col, caps)
	assert.Equal(t, []core.Statement{
		{Kind: core.StmtRegister, Table: "roads", Column: "geom", SQL: "SELECT AddGeometryColumn('roads', 'geom', 4326, 'LINESTRING', 2)"},
		{Kind: core.StmtRegister, Table: "roads", Column: "geom", SQL: "ALTER TABLE roads ALTER COLUMN geom SET NOT NULL"},
		{Kind: core.StmtCreateIndex, Table: "roads", Column: "geom", SQL: "CREATE INDEX idx_roads_geom ON roads USING GIST (geom)"},
		{Kind: core.StmtCompact, Table: "roads", SQL: "VACUUM ANALYZE roads"},
	}, create)

	drop := PostGIS.PlanDrop(col, caps)
	assert.Equal(t, []core.Statement{
		{Kind: core.StmtDropIndexStorage, Table: "roads", Column: "geom", SQL: "DROP INDEX IF EXISTS idx_roads_geom"},
		{Kind: core.StmtDeregister, Table: "roads", Column: "geom", SQL: "SELECT DropGeometryColumn('roads', 'geom')"},
	}, drop)
}
