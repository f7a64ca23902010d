package stability

const (
	DefaultInvestThresh   = 0.005
	DefaultStopLossThresh = -0.05
	DefaultWindow         = 50

	// tradingDaysPerYear and percentScale form the annualization factor
	// applied to a single-day return: *250/100.
	tradingDaysPerYear = 250
	percentScale       = 100
)

// Action is the side taken by the decision rule for a day.
type Action string

const (
	ActionNone  Action = "none"
	ActionShort Action = "short"
	ActionLong  Action = "long"
)

// Decision is the result of one Decide call.
type Decision struct {
	Action   Action
	Yield    float64
	StopLoss bool // the stop-loss floor replaced the raw profit
}

// DecisionEngine applies the threshold rule to a stability score and three
// reference prices.
type DecisionEngine struct {
	investThresh   float64
	stopLossThresh float64
}

func NewDecisionEngine(investThresh, stopLossThresh float64) *DecisionEngine {
	return &DecisionEngine{investThresh: investThresh, stopLossThresh: stopLossThresh}
}

// Decide returns the annualized yield for a day. A score above the invest
// threshold means the market is unstable and no trade is taken (yield 0).
// Otherwise the position follows the move from open to tradeClose: a rise
// goes long at tradeClose, anything else goes short. The yield is floored at
// the stop-loss threshold and has no upper bound.
func (d *DecisionEngine) Decide(score, open, tradeClose, endClose float64) (Decision, error) {
	if score > d.investThresh {
		return Decision{Action: ActionNone}, nil
	}
	if tradeClose == 0 {
		return Decision{}, &DomainError{Op: "decide", Index: -1, Value: tradeClose, Reason: "zero trade close"}
	}

	var (
		action Action
		profit float64
	)
	if tradeClose > open {
		action = ActionLong
		profit = (endClose - tradeClose) / tradeClose * tradingDaysPerYear / percentScale
	} else {
		action = ActionShort
		profit = (tradeClose - endClose) / tradeClose * tradingDaysPerYear / percentScale
	}

	if profit < d.stopLossThresh {
		return Decision{Action: action, Yield: d.stopLossThresh, StopLoss: true}, nil
	}
	return Decision{Action: action, Yield: profit}, nil
}
