// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	client_tag TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	strategy TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	volume REAL NOT NULL,
	price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	success INTEGER NOT NULL,
	reject TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_strategy ON orders(strategy);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	cycle INTEGER NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL,
	margin_free REAL NOT NULL,
	open_positions INTEGER NOT NULL,
	trades_submitted INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);

CREATE TABLE IF NOT EXISTS strategy_stats (
	strategy TEXT PRIMARY KEY,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	total_pnl REAL NOT NULL,
	win_rate REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	updated_at DATETIME NOT NULL
);
`
