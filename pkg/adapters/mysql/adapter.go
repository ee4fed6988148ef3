// Package mysql provides a MySQL database adapter for leapgeo.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	spatialmysql "github.com/leapstack-labs/leapgeo/pkg/dialects/mysql"
)

// Params holds MySQL-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Timeout is the dial timeout (e.g. "5s").
	Timeout time.Duration `mapstructure:"timeout"`

	// TLS names a registered TLS config, or "true"/"skip-verify".
	TLS string `mapstructure:"tls"`
}

// ParseParams decodes the adapter params.
func ParseParams(cfg adapter.Config) (*Params, error) {
	p := &Params{Timeout: 10 * time.Second}
	if err := adapter.Params(cfg, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SpatialDialect: spatialmysql.MySQL},
	}
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg)
	if err != nil {
		return err
	}
	mc := driverConfig(cfg, params)

	a.Logger.Debug("connecting to mysql", slog.String("addr", mc.Addr), slog.String("database", mc.DBName))

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return fmt.Errorf("invalid mysql connection settings: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.Attach(db, cfg)
	return nil
}

// driverConfig maps the target onto the driver's config. Options are
// passed through as session variables.
func driverConfig(cfg adapter.Config, params *Params) *mysql.Config {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.Timeout = params.Timeout
	mc.TLSConfig = params.TLS
	mc.ParseTime = true
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
