package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riuchan_messages_total",
			Help: "Total inbound messages seen by the bot",
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riuchan_rate_limited_total",
			Help: "Messages suppressed by the rate limiter",
		},
	)

	ScamDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riuchan_scam_deleted_total",
			Help: "Messages deleted by the scam filter",
		},
		[]string{"reason"}, // "keyword", "domain" or "pattern"
	)

	ListingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riuchan_listings_created_total",
			Help: "Listing records created",
		},
	)

	ListingsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riuchan_listings_purged_total",
			Help: "Listing records removed by the retention sweep",
		},
	)
)
