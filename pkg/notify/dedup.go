package notify

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "six_cities_client",
		Name:      "notifications_total",
		Help:      "Notifications handed to the deduper, by outcome (shown|suppressed).",
	},
	[]string{"outcome"},
)

// Deduper forwards a notification only if no notification with the same key
// was shown within the window. Safe for concurrent use.
type Deduper struct {
	next   Notifier
	active *ttlcache.Cache[string, struct{}]
}

func NewDeduper(next Notifier, window time.Duration) *Deduper {
	if next == nil {
		next = Discard
	}
	return &Deduper{
		next: next,
		active: ttlcache.New[string, struct{}](
			ttlcache.WithTTL[string, struct{}](window),
			ttlcache.WithDisableTouchOnHit[string, struct{}](),
		),
	}
}

func (d *Deduper) Notify(message, key string) {
	if key != "" && !d.claim(key) {
		notificationsTotal.WithLabelValues("suppressed").Inc()
		return
	}
	notificationsTotal.WithLabelValues("shown").Inc()
	d.next.Notify(message, key)
}

// claim marks key as on screen. It reports false if the key already was.
func (d *Deduper) claim(key string) bool {
	_, retrieved := d.active.GetOrSet(key, struct{}{})
	return !retrieved
}
