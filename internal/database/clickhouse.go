// Package database journals panel activity to ClickHouse.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"smarthome-panel/internal/models"
)

// conn is the subset of driver.Conn used here
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Close() error
}

// EventRecord is one row of panel_events
type EventRecord struct {
	Timestamp  time.Time
	Controller string
	Kind       string
	Subject    string
	Payload    string // JSON
}

// DeviceRecord is one version of a device_registry row
type DeviceRecord struct {
	Device    models.Device
	UpdatedAt time.Time
	Deleted   bool
}

// Options configures the ClickHouse connection
type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

type ClickHouseDB struct {
	conn   conn
	logger *zap.Logger
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(ctx context.Context, opts Options, logger *zap.Logger) (*ClickHouseDB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	logger.Info("Connected to ClickHouse", zap.String("addr", opts.Addr), zap.String("database", opts.Database))

	db := &ClickHouseDB{conn: c, logger: logger}
	if err := db.InitSchema(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// InitSchema creates the necessary tables if they don't exist
func (db *ClickHouseDB) InitSchema(ctx context.Context) error {
	for _, tableSQL := range AllTables() {
		if err := db.conn.Exec(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	db.logger.Info("Database schema initialized successfully")
	return nil
}

// SaveEvent appends a controller event
func (db *ClickHouseDB) SaveEvent(ctx context.Context, rec *EventRecord) error {
	query := `
		INSERT INTO panel_events (timestamp, controller, kind, subject, payload)
		VALUES (?, ?, ?, ?, ?)
	`

	err := db.conn.Exec(ctx, query,
		rec.Timestamp,
		rec.Controller,
		rec.Kind,
		rec.Subject,
		rec.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert panel event: %w", err)
	}
	return nil
}

// UpsertDevice writes a new version of a device; ReplacingMergeTree keeps
// the latest by updated_at
func (db *ClickHouseDB) UpsertDevice(ctx context.Context, rec *DeviceRecord) error {
	query := `
		INSERT INTO device_registry (device_id, name, type, status, connection_info, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err := db.conn.Exec(ctx, query,
		rec.Device.ID,
		rec.Device.Name,
		rec.Device.Type,
		string(rec.Device.Status),
		rec.Device.ConnectionInfo,
		rec.UpdatedAt,
		rec.Deleted,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}
	return nil
}

// Close closes the ClickHouse connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		if err := db.conn.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		db.logger.Info("ClickHouse connection closed")
	}
	return nil
}
