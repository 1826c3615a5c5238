package metrics

import (
	"complaint-portal/complaint-service/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Complaints counts lifecycle events. A nil *Complaints records nothing.
type Complaints struct {
	created        prometheus.Counter
	transitions    *prometheus.CounterVec
	allocatorRetry prometheus.Counter
}

func New(reg prometheus.Registerer) *Complaints {
	factory := promauto.With(reg)
	return &Complaints{
		created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "complaint_portal",
			Name:      "complaints_created_total",
			Help:      "Complaints submitted by citizens",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "complaint_portal",
			Name:      "complaint_status_transitions_total",
			Help:      "Status changes by target status",
		}, []string{"status"}),
		allocatorRetry: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "complaint_portal",
			Name:      "complaint_code_retries_total",
			Help:      "Complaint code collisions that forced a new allocation",
		}),
	}
}

func (m *Complaints) Created() {
	if m == nil {
		return
	}
	m.created.Inc()
}

func (m *Complaints) Transitioned(status models.Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(status)).Inc()
}

func (m *Complaints) AllocatorRetry() {
	if m == nil {
		return
	}
	m.allocatorRetry.Inc()
}
