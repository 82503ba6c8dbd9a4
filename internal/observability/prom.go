package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// record store
	SavesTotal      *prometheus.CounterVec
	DeletesTotal    prometheus.Counter
	StorageErrors   *prometheus.CounterVec
	RecordsReturned prometheus.Counter

	// auto-save
	AutoSaveFired   prometheus.Counter
	AutoSaveSkipped *prometheus.CounterVec

	// integrity audit
	AuditUsers   prometheus.Gauge
	AuditRecords prometheus.Gauge
	AuditOrphans prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SavesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "careervault",
				Subsystem: "store",
				Name:      "saves_total",
				Help:      "CV save attempts by result.",
			},
			[]string{"result"}, // result=saved|rejected|error
		),
		DeletesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "careervault",
				Subsystem: "store",
				Name:      "deletes_total",
				Help:      "CV deletions written back.",
			},
		),
		StorageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "careervault",
				Subsystem: "storage",
				Name:      "errors_total",
				Help:      "Storage read/write/parse failures by op.",
			},
			[]string{"op"},
		),
		RecordsReturned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "careervault",
				Subsystem: "store",
				Name:      "records_returned_total",
				Help:      "Records handed back to callers across reads.",
			},
		),
		AutoSaveFired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "careervault",
				Subsystem: "autosave",
				Name:      "fired_total",
				Help:      "Debounced saves that reached the record store.",
			},
		),
		AutoSaveSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "careervault",
				Subsystem: "autosave",
				Name:      "skipped_total",
				Help:      "Debounced saves aborted by a guard.",
			},
			[]string{"reason"}, // reason=no_user|unregistered_user|empty_draft
		),
		AuditUsers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "careervault",
				Subsystem: "audit",
				Name:      "users",
				Help:      "Users in the registry at the last sweep.",
			},
		),
		AuditRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "careervault",
				Subsystem: "audit",
				Name:      "records",
				Help:      "CV records in the table at the last sweep.",
			},
		),
		AuditOrphans: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "careervault",
				Subsystem: "audit",
				Name:      "orphan_records",
				Help:      "Records whose owner no longer validates.",
			},
		),
	}
	reg.MustRegister(
		m.SavesTotal, m.DeletesTotal, m.StorageErrors, m.RecordsReturned,
		m.AutoSaveFired, m.AutoSaveSkipped,
		m.AuditUsers, m.AuditRecords, m.AuditOrphans,
	)

	return m
}
