package utils

import (
	"fmt"
	"time"
)

// Timestamp wraps a time for rendering as a Discord timestamp token
type Timestamp struct {
	time.Time
}

func CreateTimestamp(t time.Time) Timestamp {
	return Timestamp{t}
}

// RelativeString renders the timestamp as relative markup ("3 minutes ago")
func (t Timestamp) RelativeString() string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// String renders the timestamp in the client's default format
func (t Timestamp) String() string {
	return fmt.Sprintf("<t:%d>", t.Unix())
}
