package state

const schema = `
CREATE TABLE IF NOT EXISTS agents (
	agent_name TEXT PRIMARY KEY,
	initial_capital REAL NOT NULL,
	cash REAL NOT NULL,
	start_date TEXT NOT NULL,
	cursor_date TEXT NOT NULL,
	last_update DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	agent_name TEXT NOT NULL,
	symbol TEXT NOT NULL,
	name TEXT NOT NULL,
	shares INTEGER NOT NULL,
	avg_cost REAL NOT NULL,
	PRIMARY KEY (agent_name, symbol)
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	agent_name TEXT NOT NULL,
	seq INTEGER NOT NULL,
	action TEXT NOT NULL,
	symbol TEXT NOT NULL,
	name TEXT NOT NULL,
	shares INTEGER NOT NULL,
	price REAL NOT NULL,
	fee REAL NOT NULL,
	realized_pl REAL NOT NULL,
	trade_date TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_agent_seq ON trades(agent_name, seq);

CREATE TABLE IF NOT EXISTS snapshots (
	agent_name TEXT NOT NULL,
	snap_date TEXT NOT NULL,
	cash REAL NOT NULL,
	positions_value REAL NOT NULL,
	total_value REAL NOT NULL,
	stale INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (agent_name, snap_date)
);
`
