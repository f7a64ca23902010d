package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReadCombinedStamp(t *testing.T) {
	body := `Date Time,Open,High,Low,Close,Volume
2024-03-01 09:30:00,1.10,1.12,1.09,1.11,100
2024-03-01 09:31,1.11,1.13,1.10,1.12,
2024-03-02T09:30:00Z,1.20,,,1.21,5

`
	s := NewCSVBarSource("", time.UTC)
	bars, err := s.read(context.Background(), strings.NewReader(body), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 1.10, bars[0].Open)
	assert.Equal(t, 1.12, bars[0].High)
	assert.Equal(t, 1.11, bars[0].Close)
	assert.Equal(t, 100.0, bars[0].Volume)

	assert.Equal(t, time.Date(2024, 3, 1, 9, 31, 0, 0, time.UTC), bars[1].Time)
	assert.Equal(t, 0.0, bars[1].Volume)
	assert.Equal(t, 1.21, bars[2].Close)
}

func TestCSVHeaderLookupIsCaseInsensitive(t *testing.T) {
	body := "stamp,CLOSE,Open\n2024-03-01 09:30:00,2,1\n"
	bars, err := NewCSVBarSource("", nil).read(context.Background(), strings.NewReader(body), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 1.0, bars[0].Open)
	assert.Equal(t, 2.0, bars[0].Close)
}

func TestCSVRangeFilter(t *testing.T) {
	body := "datetime,open,close\n2024-03-01 09:30:00,1,1\n2024-03-02 09:30:00,2,2\n2024-03-03 09:30:00,3,3\n"
	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC)
	bars, err := NewCSVBarSource("", nil).read(context.Background(), strings.NewReader(body), from, to)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 2.0, bars[0].Close)
}

func TestCSVErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"no close":       "datetime,open\n2024-03-01 09:30:00,1\n",
		"bad timestamp":  "datetime,open,close\nyesterday,1,1\n",
		"bad number":     "datetime,open,close\n2024-03-01 09:30:00,1,abc\n",
		"missing close":  "datetime,open,close\n2024-03-01 09:30:00,1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSVBarSource("", nil).read(context.Background(), strings.NewReader(body), time.Time{}, time.Time{})
			assert.Error(t, err)
		})
	}
}

func TestCSVLoadBarsFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(p, []byte("datetime,open,close\n2024-03-01 09:30:00,1,2\n"), 0o600))

	bars, err := NewCSVBarSource(p, time.UTC).LoadBars(context.Background(), "X", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 1)

	_, err = NewCSVBarSource(filepath.Join(t.TempDir(), "missing.csv"), time.UTC).LoadBars(context.Background(), "X", time.Time{}, time.Time{})
	assert.Error(t, err)

	_, err = NewCSVBarSource("", time.UTC).LoadBars(context.Background(), "X", time.Time{}, time.Time{})
	assert.Error(t, err)
}
