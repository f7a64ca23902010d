package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionEngine_Decide(t *testing.T) {
	engine := NewDecisionEngine(DefaultInvestThresh, DefaultStopLossThresh)

	cases := []struct {
		name       string
		score      float64
		open       float64
		tradeClose float64
		endClose   float64
		wantYield  float64
		wantAction Action
		wantStop   bool
	}{
		{"unstable stands aside", 0.006, 10, 12, 9, 0, ActionNone, false},
		{"rise then fall hits stop loss", 0.001, 10, 12, 9, -0.05, ActionLong, true},
		{"fall then rise hits stop loss", 0.001, 10, 8, 9, -0.05, ActionShort, true},
		{"rise then rise has no upper clamp", 0.001, 10, 12, 20, (20.0 - 12.0) / 12.0 * 250 / 100, ActionLong, false},
		{"flat open uses second branch", 0.001, 10, 10, 9, (10.0 - 9.0) / 10.0 * 250 / 100, ActionShort, false},
		{"score at threshold trades", 0.005, 10, 12, 12.1, (12.1 - 12.0) / 12.0 * 250 / 100, ActionLong, false},
		{"negative score trades", -0.3, 10, 9, 8, (9.0 - 8.0) / 9.0 * 250 / 100, ActionShort, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Decide(tc.score, tc.open, tc.tradeClose, tc.endClose)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantYield, got.Yield, 1e-12)
			assert.Equal(t, tc.wantAction, got.Action)
			assert.Equal(t, tc.wantStop, got.StopLoss)
		})
	}
}

func TestDecisionEngine_NoTradeIsExactlyZero(t *testing.T) {
	engine := NewDecisionEngine(DefaultInvestThresh, DefaultStopLossThresh)
	for _, prices := range [][3]float64{{10, 12, 9}, {1, 0, 5}, {0, 0, 0}, {-1, 3, 1e9}} {
		got, err := engine.Decide(0.006, prices[0], prices[1], prices[2])
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Yield)
		assert.Equal(t, ActionNone, got.Action)
	}
}

func TestDecisionEngine_ZeroTradeClose(t *testing.T) {
	engine := NewDecisionEngine(DefaultInvestThresh, DefaultStopLossThresh)
	_, err := engine.Decide(0.001, 10, 0, 9)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestDecisionEngine_CustomThresholds(t *testing.T) {
	engine := NewDecisionEngine(0.5, -0.9)

	got, err := engine.Decide(0.4, 10, 12, 9)
	require.NoError(t, err)
	assert.InDelta(t, -0.625, got.Yield, 1e-12)
	assert.False(t, got.StopLoss)

	got, err = engine.Decide(0.6, 10, 12, 9)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Yield)
}
