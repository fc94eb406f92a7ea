package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for submissions, the admin workflow and notifications.
var (
	RegistrationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biew_registrations_created_total",
			Help: "Total number of persisted BIEW registrations",
		},
		[]string{"registration_type"},
	)

	SubmissionsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_rejected_total",
			Help: "Total number of submissions rejected by validation",
		},
		[]string{"form"},
	)

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biew_registration_status_transitions_total",
			Help: "Total number of admin status transitions by target status",
		},
		[]string{"status"},
	)

	ContactMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_messages_total",
			Help: "Total number of persisted contact messages",
		},
	)

	NewsletterSubscriptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newsletter_subscriptions_total",
			Help: "Total number of newsletter subscriptions",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification attempts by transport and result",
		},
		[]string{"transport", "result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		RegistrationsCreatedTotal,
		SubmissionsRejectedTotal,
		StatusTransitionsTotal,
		ContactMessagesTotal,
		NewsletterSubscriptionsTotal,
		NotificationsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
