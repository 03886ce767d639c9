// Package timeutil keeps stored and emitted timestamps in UTC.
package timeutil

import "time"

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Since reports the time elapsed since t, ignoring t's location.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}
