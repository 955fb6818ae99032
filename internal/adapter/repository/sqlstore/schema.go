package sqlstore

// Ledger tables. Types are chosen to mean the same thing under PostgreSQL
// and SQLite: VARCHAR(36) ids (uuid strings), DECIMAL amounts, VARCHAR(10)
// ISO calendar dates so ordering by date is portable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cash_entries (
		id VARCHAR(36) PRIMARY KEY,
		amount DECIMAL(15,2) NOT NULL,
		kind VARCHAR(4) NOT NULL CHECK (kind IN ('DEP', 'WIT', 'BUY', 'SELL')),
		entry_date VARCHAR(10) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trade_entries (
		id VARCHAR(36) PRIMARY KEY,
		ticker VARCHAR(10) NOT NULL,
		price DECIMAL(15,2) NOT NULL CHECK (price > 0),
		quantity DECIMAL(15,2) NOT NULL CHECK (quantity > 0),
		kind VARCHAR(4) NOT NULL CHECK (kind IN ('BUY', 'SELL')),
		cash_impact DECIMAL(15,2) NOT NULL,
		trade_date VARCHAR(10) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS holdings (
		ticker VARCHAR(10) PRIMARY KEY,
		quantity DECIMAL(15,2) NOT NULL CHECK (quantity >= 0),
		average_cost DECIMAL(15,2) NOT NULL CHECK (average_cost > 0),
		last_price DECIMAL(15,2) NOT NULL CHECK (last_price > 0),
		cost_basis DECIMAL(15,2) NOT NULL CHECK (cost_basis >= 0),
		current_value DECIMAL(15,2) NOT NULL CHECK (current_value >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS realised_gains (
		trade_id VARCHAR(36) PRIMARY KEY REFERENCES trade_entries (id),
		ticker VARCHAR(10) NOT NULL,
		delta DECIMAL(15,2) NOT NULL,
		gain_date VARCHAR(10) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trade_entries_ticker ON trade_entries (ticker)`,
	`CREATE INDEX IF NOT EXISTS idx_realised_gains_ticker ON realised_gains (ticker)`,
}
