package sqlite

import "time"

// unixTime converts a stored unix timestamp back to time.Time.
func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}
