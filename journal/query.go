package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetOrder returns a single order record by client tag.
func (j *SQLite) GetOrder(clientTag string) (OrderRecord, error) {
	var rec OrderRecord

	row := j.db.QueryRow(`
		SELECT client_tag, order_id, strategy, symbol, side, volume, price, stop_loss, take_profit, success, reject, time
		FROM orders
		WHERE client_tag = ?`, clientTag)

	err := row.Scan(
		&rec.ClientTag,
		&rec.OrderID,
		&rec.Strategy,
		&rec.Symbol,
		&rec.Side,
		&rec.Volume,
		&rec.Price,
		&rec.StopLoss,
		&rec.TakeProfit,
		&rec.Success,
		&rec.Reject,
		&rec.Time,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return OrderRecord{}, fmt.Errorf("order %q not found", clientTag)
		}
		return OrderRecord{}, err
	}
	return rec, nil
}

// ListOrdersByStrategy returns a strategy's order history, oldest first.
func (j *SQLite) ListOrdersByStrategy(strategy string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT client_tag, order_id, strategy, symbol, side, volume, price, stop_loss, take_profit, success, reject, time
		FROM orders
		WHERE strategy = ?
		ORDER BY time ASC`, strategy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(
			&rec.ClientTag,
			&rec.OrderID,
			&rec.Strategy,
			&rec.Symbol,
			&rec.Side,
			&rec.Volume,
			&rec.Price,
			&rec.StopLoss,
			&rec.TakeProfit,
			&rec.Success,
			&rec.Reject,
			&rec.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity snapshots within [start, end).
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, cycle, balance, equity, margin_free, open_positions, trades_submitted
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(
			&rec.Time,
			&rec.Cycle,
			&rec.Balance,
			&rec.Equity,
			&rec.MarginFree,
			&rec.OpenPositions,
			&rec.TradesSubmitted,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
