package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	dataset TEXT NOT NULL,
	from_day TEXT NOT NULL,
	to_day TEXT NOT NULL,
	config BLOB,
	param_sets INTEGER NOT NULL,
	days INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	no_decision INTEGER NOT NULL,
	filtered INTEGER NOT NULL,
	total_r REAL NOT NULL,
	avg_r REAL NOT NULL,
	win_rate REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	result_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	param_set TEXT NOT NULL,
	day TEXT NOT NULL,
	direction TEXT NOT NULL,
	anchor TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	entry REAL NOT NULL,
	stop REAL NOT NULL,
	target REAL NOT NULL,
	outcome TEXT NOT NULL,
	exit_time DATETIME,
	exit_price REAL NOT NULL,
	r_multiple REAL NOT NULL,
	mae REAL NOT NULL,
	mfe REAL NOT NULL,
	bars_held INTEGER NOT NULL,
	entry_delay_bars INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, day);
`
