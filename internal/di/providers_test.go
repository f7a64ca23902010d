package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	icache "StabTrade/internal/service/cache"
	"StabTrade/pkg/config"
	"StabTrade/pkg/logger"
	"StabTrade/pkg/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Logger.Level = "error"
	cfg.Strategy.Window = 3
	cfg.Strategy.Symbol = "SPY"
	return cfg
}

func TestInitializeBatchRunsCSVToXLSX(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bars.csv")
	out := filepath.Join(dir, "annual_yield.xlsx")
	body := "datetime,open,close\n" +
		"2024-03-01 09:30:00,100,100\n" +
		"2024-03-01 09:31:00,100,101\n" +
		"2024-03-01 09:32:00,100,102\n" +
		"2024-03-01 09:33:00,100,103\n" +
		"2024-03-02 09:30:00,50,50\n"
	require.NoError(t, os.WriteFile(in, []byte(body), 0o644))

	cfg := testConfig(t)
	cfg.Input.Path = in
	cfg.Output.XLSXPath = out
	require.NoError(t, cfg.Validate())

	batch, err := InitializeBatch(cfg)
	require.NoError(t, err)

	sum, err := batch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Bars)
	assert.Equal(t, 2, sum.Days)
	assert.Equal(t, 1, sum.Evaluated)
	assert.Len(t, sum.Failed, 1)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(cfg.Output.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01", rows[1][0])
}

func TestProvideYieldProcessorRequiresClients(t *testing.T) {
	rec := metrics.NewWithRegistry(nil)
	cfg := testConfig(t)

	cfg.Output.Sinks = []string{config.SinkClickHouse}
	_, err := ProvideYieldProcessor(cfg, rec, nil, nil, logger.Nop())
	require.Error(t, err)

	cfg.Output.Sinks = []string{config.SinkKafka}
	_, err = ProvideYieldProcessor(cfg, rec, nil, nil, logger.Nop())
	require.Error(t, err)

	cfg.Output.Sinks = []string{"parquet"}
	_, err = ProvideYieldProcessor(cfg, rec, nil, nil, logger.Nop())
	require.Error(t, err)

	cfg.Output.Sinks = []string{config.SinkXLSX}
	p, err := ProvideYieldProcessor(cfg, rec, nil, nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"xlsx"}, p.Sinks())
}

func TestProvideBarSourceClickHouseNeedsClient(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.Type = "clickhouse"
	_, err := ProvideBarSource(cfg, nil, logger.Nop())
	require.Error(t, err)
}

func TestProvideCacheSelectsBackend(t *testing.T) {
	cfg := testConfig(t)
	_, ok := ProvideCache(cfg).(*icache.TTLCache)
	assert.True(t, ok)

	cfg.Redis.Enabled = true
	_, ok = ProvideCache(cfg).(*icache.LayeredCache)
	assert.True(t, ok)
}

func TestOptionalClientsAreNilWhenUnconfigured(t *testing.T) {
	cfg := testConfig(t)

	ch, err := ProvideClickHouseClient(cfg)
	require.NoError(t, err)
	assert.Nil(t, ch)

	producer, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	assert.Nil(t, producer)

	consumer, err := ProvideKafkaConsumer(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, consumer)
}
