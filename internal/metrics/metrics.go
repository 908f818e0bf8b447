package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Domain
	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_created_total",
			Help: "Total number of published recipes",
		},
	)

	ToggleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_toggle_operations_total",
			Help: "Favorite, shopping cart and subscription toggles by outcome",
		},
		[]string{"kind", "action", "result"},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of shopping list downloads",
		},
	)

	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Distinct ingredients per downloaded shopping list",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_login_attempts_total",
			Help: "Token login attempts by result",
		},
		[]string{"result"},
	)

	FixturesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_fixtures_loaded_total",
			Help: "Fixture records created at startup",
		},
		[]string{"kind"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordToggle records the outcome of a favorite, cart or subscription toggle
func RecordToggle(kind, action string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	ToggleOperations.WithLabelValues(kind, action, result).Inc()
}

// RecordShoppingListDownload records a download with its number of distinct ingredients
func RecordShoppingListDownload(items int) {
	ShoppingListDownloads.Inc()
	ShoppingListItems.Observe(float64(items))
}
