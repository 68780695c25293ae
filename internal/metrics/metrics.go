// Package metrics defines the indexer's Prometheus counters and gauges
// (spec.md §6.4), registered through promauto against a private registry
// so /metrics never leaks process-default collectors the teacher doesn't
// register either.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter/gauge the ingestion pipeline touches.
type Metrics struct {
	Registry *prometheus.Registry

	ledgers      prometheus.Counter
	accounts     prometheus.Counter
	contracts    prometheus.Counter
	transactions prometheus.Counter
	operations   prometheus.Counter
	events       prometheus.Counter
}

// New builds a fresh, privately-registered Metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ledgers: factory.NewCounter(prometheus.CounterOpts{
			Name: "quasar_ingested_ledgers_total",
			Help: "Polling mode: ledgers inserted. Watch mode: account/contract-data bucket entries the dispatcher handled, success or failure alike (see DESIGN.md open question 1).",
		}),
		accounts: factory.NewCounter(prometheus.CounterOpts{
			Name: "quasar_ingested_accounts_total",
			Help: "Account ledger entries ingested.",
		}),
		contracts: factory.NewCounter(prometheus.CounterOpts{
			Name: "quasar_ingested_contracts_total",
			Help: "Contract-data ledger entries ingested.",
		}),
		transactions: factory.NewCounter(prometheus.CounterOpts{
			Name: "quasar_ingested_transactions_total",
			Help: "Transactions ingested.",
		}),
		operations: factory.NewCounter(prometheus.CounterOpts{
			Name: "quasar_ingested_operations_total",
			Help: "Operations ingested.",
		}),
		events: factory.NewCounter(prometheus.CounterOpts{
			Name: "quasar_ingested_events_total",
			Help: "Soroban contract events ingested.",
		}),
	}
}

func (m *Metrics) IncLedgers()      { m.ledgers.Inc() }
func (m *Metrics) IncAccounts()     { m.accounts.Inc() }
func (m *Metrics) IncContracts()    { m.contracts.Inc() }
func (m *Metrics) IncTransactions() { m.transactions.Inc() }
func (m *Metrics) AddOperations(n int) {
	if n > 0 {
		m.operations.Add(float64(n))
	}
}
func (m *Metrics) AddEvents(n int) {
	if n > 0 {
		m.events.Add(float64(n))
	}
}
