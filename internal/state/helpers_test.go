package state

import (
	"context"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
)

var testDialect = dialect.NewDialect("journaltest").
	Lifecycle(dialect.Lifecycle{
		Create: func(col core.SpatialColumn, _ dialect.Capabilities) []core.Statement {
			return []core.Statement{dialect.ColumnStatement(core.StmtRegister, col, "SELECT 1")}
		},
	}).
	Build()

type versionConn struct {
	v core.Version
}

func (c *versionConn) Exec(context.Context, string) error { return nil }

func (c *versionConn) ServerVersion(context.Context) (core.Version, error) { return c.v, nil }
