package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(r OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(client_tag, order_id, strategy, symbol, side, volume, price, stop_loss, take_profit, success, reject, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ClientTag, r.OrderID, r.Strategy, r.Symbol, r.Side, r.Volume,
		r.Price, r.StopLoss, r.TakeProfit, r.Success, r.Reject, r.Time,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cycle, balance, equity, margin_free, open_positions, trades_submitted)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Time, e.Cycle, e.Balance, e.Equity, e.MarginFree, e.OpenPositions, e.TradesSubmitted,
	)
	return err
}

func (j *SQLite) UpsertStrategyStats(s StrategyStats) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(`
		INSERT INTO strategy_stats
		(strategy, trades, wins, total_pnl, win_rate, max_drawdown, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(strategy) DO UPDATE SET
			trades = excluded.trades,
			wins = excluded.wins,
			total_pnl = excluded.total_pnl,
			win_rate = excluded.win_rate,
			max_drawdown = excluded.max_drawdown,
			updated_at = excluded.updated_at`,
		s.Strategy, s.Trades, s.Wins, s.TotalPnL, s.WinRate, s.MaxDrawdown, s.UpdatedAt,
	)
	return err
}

func (j *SQLite) LoadStrategyStats() ([]StrategyStats, error) {
	rows, err := j.db.Query(`
		SELECT strategy, trades, wins, total_pnl, win_rate, max_drawdown, updated_at
		FROM strategy_stats
		ORDER BY strategy ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StrategyStats
	for rows.Next() {
		var s StrategyStats
		if err := rows.Scan(
			&s.Strategy,
			&s.Trades,
			&s.Wins,
			&s.TotalPnL,
			&s.WinRate,
			&s.MaxDrawdown,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
