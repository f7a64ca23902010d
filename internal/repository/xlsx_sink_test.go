package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"StabTrade/internal/domain/models"
)

func TestXLSXSinkWritesChronologicalRows(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "annual_yield.xlsx")
	s := NewXLSXSink(p, "", false)
	assert.Equal(t, "xlsx", s.Name())

	require.NoError(t, s.Write(context.Background(), []models.YieldOutcome{
		{Date: "2024-03-02", Yield: -0.05},
	}))
	require.NoError(t, s.Write(context.Background(), []models.YieldOutcome{
		{Date: "2024-03-01", Yield: 0.5},
		{Date: "2024-03-02", Yield: 0},
	}))

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "annual yield"}, rows[0])
	assert.Equal(t, []string{"2024-03-01", "0.5"}, rows[1])
	assert.Equal(t, []string{"2024-03-02", "0"}, rows[2])
}

func TestXLSXSinkDetailed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "y.xlsx")
	s := NewXLSXSink(p, "yields", true)
	require.NoError(t, s.Write(context.Background(), []models.YieldOutcome{
		{Date: "2024-03-01", Yield: 0.5, Stability: 0.001, Open: 9, WindowClose: 10, FinalClose: 12, Action: "long"},
	}))

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("yields")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"date", "annual yield", "stability", "open", "window_close", "final_close", "action"}, rows[0])
	assert.Equal(t, "long", rows[1][6])
	require.NoError(t, s.Close())
}
