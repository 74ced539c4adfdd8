package database

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const queryStartKey = "zazzles:query_start"

// QueryMetrics is a gorm plugin that records statement latency per operation
type QueryMetrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewQueryMetrics creates the query collectors and registers them on reg
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	m := &QueryMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zazzles",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Latency of database statements by operation.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "table"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zazzles",
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Database statements that returned an error, by operation.",
		}, []string{"operation", "table"}),
	}
	reg.MustRegister(m.duration, m.errors)
	return m
}

// Name implements gorm.Plugin
func (m *QueryMetrics) Name() string {
	return "zazzles:query_metrics"
}

// Initialize implements gorm.Plugin
func (m *QueryMetrics) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("zazzles:before_create", m.start),
		cb.Create().After("gorm:create").Register("zazzles:after_create", m.after("insert")),
		cb.Query().Before("gorm:query").Register("zazzles:before_query", m.start),
		cb.Query().After("gorm:query").Register("zazzles:after_query", m.after("select")),
		cb.Update().Before("gorm:update").Register("zazzles:before_update", m.start),
		cb.Update().After("gorm:update").Register("zazzles:after_update", m.after("update")),
		cb.Delete().Before("gorm:delete").Register("zazzles:before_delete", m.start),
		cb.Delete().After("gorm:delete").Register("zazzles:after_delete", m.after("delete")),
		cb.Row().Before("gorm:row").Register("zazzles:before_row", m.start),
		cb.Row().After("gorm:row").Register("zazzles:after_row", m.after("row")),
		cb.Raw().Before("gorm:raw").Register("zazzles:before_raw", m.start),
		cb.Raw().After("gorm:raw").Register("zazzles:after_raw", m.after("raw")),
	)
}

func (m *QueryMetrics) start(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

func (m *QueryMetrics) after(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) { m.observe(tx, operation) }
}

func (m *QueryMetrics) observe(tx *gorm.DB, operation string) {
	value, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	started, ok := value.(time.Time)
	if !ok {
		return
	}

	table := tx.Statement.Table
	if table == "" {
		table = extractTableName(tx.Statement.SQL.String())
	}
	m.duration.WithLabelValues(operation, table).Observe(time.Since(started).Seconds())
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		m.errors.WithLabelValues(operation, table).Inc()
	}
}
