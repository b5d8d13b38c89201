package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestCSVJournalWritesTrades(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	assert.NoError(t, err)

	assert.NoError(t, j.RecordTrade(sampleTrade()))
	assert.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	assert.Len(t, rows, 2)
	assert.Equal(t, "symbol", rows[0][0])
	assert.Equal(t, "BTC/USDT", rows[1][0])
	assert.Equal(t, "signal", rows[1][9])
}

func TestCSVJournalWritesEquity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	assert.NoError(t, err)

	err = j.RecordEquity(EquitySnapshot{
		Time:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Balance: 10000,
		Equity:  10050,
	})
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	rows := readCSV(t, equityPath)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "balance", "equity"}, rows[0])
	assert.Equal(t, "2024-01-01T00:00:00Z", rows[1][0])
	assert.Equal(t, "10050.000000", rows[1][2])
}

func TestCSVJournalBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "no", "such", "dir", "t.csv"), "e.csv")
	assert.Error(t, err)
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Nop
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordEquity(EquitySnapshot{}))
	assert.NoError(t, j.Close())
}
