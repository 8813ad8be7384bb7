package crawler

import (
	"sync"

	"golang.org/x/time/rate"
)

// DefaultHostRate is the per-host politeness throttle in requests/second.
const DefaultHostRate = 4

// hostLimiters hands out one token bucket per host so a crawl never
// hammers a single site even when the pool is large.
type hostLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newHostLimiters(perSecond float64) *hostLimiters {
	if perSecond <= 0 {
		perSecond = DefaultHostRate
	}
	// Sub-1 rates truncate to a zero burst, which would reject every
	// request; a single-token bucket keeps them usable.
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &hostLimiters{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// get returns the limiter for a host, creating it on first use.
// Local targets have an empty host and are never throttled.
func (h *hostLimiters) get(host string) *rate.Limiter {
	if host == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	return l
}
