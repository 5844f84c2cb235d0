package model

import "time"

// Time is the wire representation of an instant: nanoseconds since the Unix epoch.
type Time int64

// TimeFrom converts a time.Time to wire time.
func TimeFrom(t time.Time) Time {
	return Time(t.UnixNano())
}

// Std converts wire time back to a time.Time in UTC.
func (t Time) Std() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// IsZero reports whether t is the epoch.
func (t Time) IsZero() bool { return t == 0 }
