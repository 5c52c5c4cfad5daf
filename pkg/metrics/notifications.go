package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Delivery outcomes recorded by the notification dispatcher.
const (
	OutcomeSent            = "sent"
	OutcomeTemplateMissing = "template_missing"
	OutcomeNoRecipients    = "no_recipients"
	OutcomeRenderFailed    = "render_failed"
	OutcomeDeliveryFailed  = "delivery_failed"
)

// NotificationMetrics counts notification rows and delivery attempts.
type NotificationMetrics struct {
	created  *prometheus.CounterVec
	delivery *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewNotificationMetrics registers the dispatcher metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notification rows created, by type.",
	}, []string{"type"})
	delivery := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Notification delivery attempts, by type and outcome.",
	}, []string{"type", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_delivery_duration_seconds",
		Help:    "Time spent rendering and handing a notification to the mail sender.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	reg.MustRegister(created, delivery, duration)
	return &NotificationMetrics{
		created:  created,
		delivery: delivery,
		duration: duration,
	}
}

// IncCreated counts a persisted notification row.
func (m *NotificationMetrics) IncCreated(notificationType string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(notificationType)).Inc()
}

// ObserveDelivery records the outcome and duration of one delivery attempt.
func (m *NotificationMetrics) ObserveDelivery(notificationType, outcome string, elapsed time.Duration) {
	if m == nil || m.delivery == nil {
		return
	}
	label := normalizeLabel(notificationType)
	m.delivery.WithLabelValues(label, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
