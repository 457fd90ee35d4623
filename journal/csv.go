package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	orders *csv.Writer
	equity *csv.Writer
	of, ef *os.File
}

// NewCSV opens both files in append mode so order history and equity
// snapshots accumulate across runs. Headers are written only when a
// file is new.
func NewCSV(ordersPath, equityPath string) (*CSVJournal, error) {
	ow, of, err := openAppendCSV(ordersPath,
		[]string{"client_tag", "order_id", "strategy", "symbol", "side", "volume", "price", "stop_loss", "take_profit", "success", "reject", "time"})
	if err != nil {
		return nil, err
	}
	ew, ef, err := openAppendCSV(equityPath,
		[]string{"time", "cycle", "balance", "equity", "margin_free", "open_positions", "trades_submitted"})
	if err != nil {
		of.Close()
		return nil, err
	}

	return &CSVJournal{ow, ew, of, ef}, nil
}

func openAppendCSV(path string, header []string) (*csv.Writer, *os.File, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			file.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			file.Close()
			return nil, nil, err
		}
	}
	return w, file, nil
}

func (j *CSVJournal) RecordOrder(r OrderRecord) error {
	err := j.orders.Write([]string{
		r.ClientTag,
		r.OrderID,
		r.Strategy,
		r.Symbol,
		r.Side,
		f(r.Volume),
		f(r.Price),
		f(r.StopLoss),
		f(r.TakeProfit),
		strconv.FormatBool(r.Success),
		r.Reject,
		r.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		strconv.Itoa(e.Cycle),
		f(e.Balance),
		f(e.Equity),
		f(e.MarginFree),
		strconv.Itoa(e.OpenPositions),
		strconv.Itoa(e.TradesSubmitted),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.orders.Flush()
	if err := j.orders.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.of.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
