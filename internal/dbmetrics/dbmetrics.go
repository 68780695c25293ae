// Package dbmetrics implements C13: a periodic gauge refresh over the
// quasar database's own table sizes, grounded on
// original_source/src/database_metrics.rs (a supplemented feature; the
// distilled spec doesn't name it, but the original ships it and it's
// cheap ambient observability in the teacher's own idiom).
package dbmetrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tables = []string{"ledgers", "accounts", "contracts", "contract_spec", "transactions", "operations", "events"}

// Collector periodically refreshes one gauge per quasar table with its
// current row count.
type Collector struct {
	log    *slog.Logger
	pool   *pgxpool.Pool
	gauges map[string]prometheus.Gauge
}

// New registers one gauge per table against reg.
func New(log *slog.Logger, pool *pgxpool.Pool, reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)
	gauges := make(map[string]prometheus.Gauge, len(tables))
	for _, t := range tables {
		gauges[t] = factory.NewGauge(prometheus.GaugeOpts{
			Name: "quasar_table_rows_" + t,
			Help: "Current row count of the " + t + " table.",
		})
	}
	return &Collector{log: log, pool: pool, gauges: gauges}
}

// Run refreshes every gauge every interval until ctx is done.
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		}
	}
}

func (c *Collector) refresh(ctx context.Context) {
	for _, t := range tables {
		var n int64
		if err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			c.log.Debug("db metrics refresh failed", "table", t, "error", err)
			continue
		}
		c.gauges[t].Set(float64(n))
	}
}
