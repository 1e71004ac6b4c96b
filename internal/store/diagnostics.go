package store

import (
	"context"
	"fmt"
)

// Diagnostics describes store connectivity for the /test endpoint.
type Diagnostics struct {
	Driver           string   `json:"database_driver"`
	ConnectionStatus string   `json:"connection_status"`
	Database         string   `json:"database"`
	Collections      []string `json:"collections"`
}

const maxListedCollections = 10

// Ping checks that the underlying connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Diagnose reports connectivity and up to ten table names. Failures are
// described in the result rather than returned, and are truncated so driver
// messages cannot leak connection strings.
func (s *Store) Diagnose(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Driver:           s.db.Dialector.Name(),
		ConnectionStatus: "Not Connected",
		Database:         "Not Available",
		Collections:      []string{},
	}

	if err := s.Ping(ctx); err != nil {
		d.Database = fmt.Sprintf("Error: %s", truncate(err.Error(), 50))
		return d
	}
	d.ConnectionStatus = "Connected"

	tables, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		d.Database = fmt.Sprintf("Connected but Error: %s", truncate(err.Error(), 50))
		return d
	}
	if len(tables) > maxListedCollections {
		tables = tables[:maxListedCollections]
	}
	d.Collections = tables
	d.Database = "Connected & Working"
	return d
}

// truncate keeps at most n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
