package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics tracks coin movements.
type LedgerMetrics struct {
	coins    *prometheus.CounterVec
	rejected prometheus.Counter
}

// NewLedgerMetrics registers the ledger counters on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	coins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_coins_total",
		Help: "Coins moved through user ledgers, by transaction type.",
	}, []string{"type"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_debits_rejected_total",
		Help: "Debits refused for insufficient balance.",
	})
	reg.MustRegister(coins, rejected)
	return &LedgerMetrics{coins: coins, rejected: rejected}
}

// AddCoins adds amount to the counter for the transaction type.
func (m *LedgerMetrics) AddCoins(txType string, amount int) {
	if m == nil || m.coins == nil || amount <= 0 {
		return
	}
	m.coins.WithLabelValues(normalizeLabel(txType)).Add(float64(amount))
}

// IncRejected counts a debit refused for insufficient balance.
func (m *LedgerMetrics) IncRejected() {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.Inc()
}
