package cli

import (
	"strings"
	"time"

	"indicator-toggl/internal/datetime"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/services"
	"indicator-toggl/internal/validation"
)

// entryArgs is the result of reading DESCR [@PROJECT] followed by the rest
type entryArgs struct {
	description string
	project     string
	rest        []string
}

var argValidator = validation.NewValidator()

// splitEntryArgs reads the description and the optional @project token
func splitEntryArgs(command string, args []string) (entryArgs, error) {
	if len(args) == 0 || !argValidator.IsNonEmptyString(args[0]) {
		return entryArgs{}, errors.NewUsageError(command, "a description is required")
	}
	parsed := entryArgs{description: args[0], rest: args[1:]}
	if len(parsed.rest) > 0 && strings.HasPrefix(parsed.rest[0], "@") {
		parsed.project = strings.TrimPrefix(parsed.rest[0], "@")
		if !argValidator.IsNonEmptyString(parsed.project) {
			return entryArgs{}, errors.NewUsageError(command, "@ must be followed by a project name")
		}
		parsed.rest = parsed.rest[1:]
	}
	return parsed, nil
}

// parseStartArgs reads: DESCR [@PROJECT] [DATETIME]
func parseStartArgs(args []string, now time.Time) (services.EntryParams, error) {
	parsed, err := splitEntryArgs("start", args)
	if err != nil {
		return services.EntryParams{}, err
	}

	start, err := datetime.ParseLocalDateTimeOrNow(strings.Join(parsed.rest, " "), now)
	if err != nil {
		return services.EntryParams{}, err
	}
	return services.EntryParams{
		Description: parsed.description,
		Project:     parsed.project,
		Start:       &start,
	}, nil
}

// parseAddArgs reads: DESCR [@PROJECT] START (dDURATION|END)
func parseAddArgs(args []string, now time.Time) (services.EntryParams, error) {
	parsed, err := splitEntryArgs("add", args)
	if err != nil {
		return services.EntryParams{}, err
	}
	if len(parsed.rest) < 2 {
		return services.EntryParams{}, errors.NewUsageError("add", "a start and either dDURATION or an end time are required")
	}

	params := services.EntryParams{Description: parsed.description, Project: parsed.project}

	last := parsed.rest[len(parsed.rest)-1]
	if isDurationToken(last) {
		seconds, err := datetime.ParseDuration(last[1:])
		if err != nil {
			return services.EntryParams{}, err
		}
		start, err := datetime.ParseLocalDateTime(strings.Join(parsed.rest[:len(parsed.rest)-1], " "), now)
		if err != nil {
			return services.EntryParams{}, err
		}
		params.Start = &start
		params.Duration = &seconds
		return params, nil
	}

	start, stop, err := parseRange(parsed.rest, now)
	if err != nil {
		return services.EntryParams{}, err
	}
	params.Start = &start
	params.Stop = &stop
	return params, nil
}

// parseStopArgs reads: [DATETIME]
func parseStopArgs(args []string, now time.Time) (time.Time, error) {
	return datetime.ParseLocalDateTimeOrNow(strings.Join(args, " "), now)
}

// parseRange finds the first split of tokens into two readable instants.
// Dates and times may each span several tokens, e.g. "2024-03-13 09:00".
func parseRange(tokens []string, now time.Time) (time.Time, time.Time, error) {
	var firstErr error
	for i := 1; i < len(tokens); i++ {
		start, err := datetime.ParseLocalDateTime(strings.Join(tokens[:i], " "), now)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stop, err := datetime.ParseLocalDateTime(strings.Join(tokens[i:], " "), now)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return start, stop, nil
	}
	return time.Time{}, time.Time{}, firstErr
}

func isDurationToken(token string) bool {
	return len(token) > 1 && token[0] == 'd' && token[1] >= '0' && token[1] <= '9'
}
