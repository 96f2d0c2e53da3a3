// Package translator adapts natural-language command text into wire intents.
//
// Keyword is the built-in offline heuristic. Remote calls an external
// endpoint over HTTP with retries and a circuit breaker. Fallback chains the
// two so the desktop keeps responding when the remote side is down.
package translator
