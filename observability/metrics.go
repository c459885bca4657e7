package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Send attempts by outcome (accepted, rejected, failed)",
		},
		[]string{"outcome"},
	)

	ActiveSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_live_subscriptions_active",
			Help: "Current number of live subscriptions",
		},
		[]string{"kind"},
	)

	Emissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_live_emissions_total",
			Help: "Full-list emissions delivered to subscribers",
		},
		[]string{"kind"},
	)

	ProfileLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_profile_lookups_total",
			Help: "Profile resolutions by source (cache, store, fallback)",
		},
		[]string{"source"},
	)
)
