// Package ratelimit builds the client-side token bucket used to pace
// requests to the Bsale API.
package ratelimit

import "golang.org/x/time/rate"

// NewRateLimiter returns a limiter allowing requestsPerMinute requests per
// minute, replenished continuously, with a burst of one second's worth of
// requests (at least 1). A non-positive rate returns nil, meaning
// "unlimited".
func NewRateLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}

	burst := requestsPerMinute / 60
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
}
