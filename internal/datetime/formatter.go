package datetime

import "time"

// Formatter prints instants in a configured layout and location.
type Formatter struct {
	Layout   string
	Location *time.Location
}

// NewFormatter falls back to DefaultDisplayFormat and the local zone for empty values.
func NewFormatter(layout string, loc *time.Location) *Formatter {
	if layout == "" {
		layout = DefaultDisplayFormat
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{Layout: layout, Location: loc}
}

// Format renders t in the formatter's location.
func (f *Formatter) Format(t time.Time) string {
	return t.In(f.Location).Format(f.Layout)
}

// FormatPtr renders t, or fallback when t is nil.
func (f *Formatter) FormatPtr(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return f.Format(*t)
}
