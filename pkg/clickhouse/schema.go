package clickhouse

import "fmt"

// Schema returns the idempotent DDL for the bar and yield tables in database.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.bars (
	symbol LowCardinality(String),
	ts DateTime64(3),
	open Float64,
	high Float64,
	low Float64,
	close Float64,
	volume Float64
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(ts)
ORDER BY (symbol, ts)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_yields (
	date Date,
	symbol LowCardinality(String),
	stability Float64,
	open Float64,
	window_close Float64,
	final_close Float64,
	action LowCardinality(String),
	yield Float64,
	inserted_at DateTime DEFAULT now()
) ENGINE = ReplacingMergeTree(inserted_at)
ORDER BY (symbol, date)`, database),
	}
}
