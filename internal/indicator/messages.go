package indicator

import (
	"fmt"
	"time"

	"indicator-toggl/internal/datetime"
)

// IdleMessage is shown when no entry is running.
const IdleMessage = "You're not working on anything right now."

// StartedMessage announces a started entry.
func StartedMessage(f *datetime.Formatter, description string, at time.Time) string {
	return fmt.Sprintf("%s started at %s", describe(description), f.Format(at))
}

// StoppedMessage announces a stopped entry.
func StoppedMessage(f *datetime.Formatter, description string, at time.Time) string {
	return fmt.Sprintf("%s stopped at %s", describe(description), f.Format(at))
}

func describe(description string) string {
	if description == "" {
		return "(no description)"
	}
	return description
}
