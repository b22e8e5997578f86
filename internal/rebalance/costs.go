package rebalance

// CostModel parameterizes the transaction-cost estimate: brokerage in basis
// points on gross traded value, a securities transaction tax on sell-side
// notional, and a goods/services surcharge applied to brokerage.
type CostModel struct {
	BrokerageRateBps float64 `json:"brokerageRateBps"`
	STTRate          float64 `json:"sttRate"`
	GSTRate          float64 `json:"gstRate"`
}

// DefaultCostModel returns the default cost assumptions: 3 bps brokerage,
// 0.1% STT on sells, 18% GST on brokerage.
func DefaultCostModel() CostModel {
	return CostModel{BrokerageRateBps: 3, STTRate: 0.001, GSTRate: 0.18}
}

// TransactionCostEstimate aggregates the cost components over a trade set.
type TransactionCostEstimate struct {
	Brokerage float64 `json:"brokerage"`
	STT       float64 `json:"stt"`
	GST       float64 `json:"gst"`
	Total     float64 `json:"total"`
}

// EstimateTransactionCosts estimates the execution cost of the trade set.
// Brokerage applies to gross traded value (buys and sells), STT only to
// sell-side notional, and GST to the brokerage amount.
func EstimateTransactionCosts(trades []SuggestedTrade, model CostModel) TransactionCostEstimate {
	var gross, sellNotional float64
	for _, t := range trades {
		gross += t.EstimatedAmount
		if t.Side == SideSell {
			sellNotional += t.EstimatedAmount
		}
	}

	brokerage := gross * model.BrokerageRateBps / 10000
	stt := sellNotional * model.STTRate
	gst := brokerage * model.GSTRate

	return TransactionCostEstimate{
		Brokerage: brokerage,
		STT:       stt,
		GST:       gst,
		Total:     brokerage + stt + gst,
	}
}
