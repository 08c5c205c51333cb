package store

const Schema = `
CREATE TABLE IF NOT EXISTS bars (
	instrument TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	ts INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (instrument, timeframe, ts)
);
`
