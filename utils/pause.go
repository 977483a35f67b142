package utils

import "time"

// Settle blocks for the fixed page-settle interval. There is no retry
// anywhere in the collector; recovery is fixed sleeps or sentinel values.
func Settle(logger *Logger, what string, d time.Duration) {
	logger.Debug("[wait] settling after %s for %v", what, d)
	time.Sleep(d)
}

// CaptchaPause blocks for the manual-intervention window when an
// anti-automation challenge is detected. It does not attempt a solve.
func CaptchaPause(logger *Logger, d time.Duration) {
	logger.Warn("[wait] captcha challenge detected — you have %v to solve it by hand", d)
	time.Sleep(d)
}
