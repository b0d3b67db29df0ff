package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "In-app notifications persisted, by action type",
		},
		[]string{"action_type"},
	)

	PushDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_dispatches_total",
			Help: "Push dispatch attempts by outcome",
		},
		[]string{"result"}, // sent, no_tokens, registry_error, provider_error
	)

	PushTokensInvalidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_tokens_invalidated_total",
			Help: "Device tokens deleted after the provider reported them stale",
		},
	)

	BackgroundTaskFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_task_failures_total",
			Help: "Fire-and-forget work items that failed",
		},
		[]string{"reason"}, // error, panic, dropped
	)

	TaskQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "background_task_queue_depth",
			Help: "Work items currently waiting for a worker",
		},
	)
)
