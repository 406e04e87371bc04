package database

// SQL schemas for the panel's ClickHouse tables

const (
	// PanelEventsTableSQL creates the panel_events table
	PanelEventsTableSQL = `
		CREATE TABLE IF NOT EXISTS panel_events (
			timestamp DateTime64(3),
			controller LowCardinality(String),
			kind LowCardinality(String),
			subject String,
			payload String
		) ENGINE = MergeTree()
		ORDER BY (controller, timestamp)
		PARTITION BY toYYYYMM(timestamp)
	`

	// DeviceRegistryTableSQL creates the device_registry table
	DeviceRegistryTableSQL = `
		CREATE TABLE IF NOT EXISTS device_registry (
			device_id String,
			name String,
			type String,
			status LowCardinality(String),
			connection_info String,
			updated_at DateTime64(3),
			is_deleted Bool
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY device_id
	`
)

// AllTables returns all table creation SQL statements
func AllTables() []string {
	return []string{
		PanelEventsTableSQL,
		DeviceRegistryTableSQL,
	}
}
