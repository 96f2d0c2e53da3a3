// Package middleware provides the Gin middleware stack of the desktop
// session API.
//
//   - CORS: cross-origin access for the browser shell, including WebSocket upgrades
//   - RateLimit: per-IP token bucket, idle clients are evicted
//   - RequestID: X-Request-ID propagation
//   - AccessLog: zap request logging
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
