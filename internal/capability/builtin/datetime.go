package builtin

import (
	"context"
	"strings"
	"time"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"
)

type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

func (c *Clock) Handle(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	query, err := capability.String(p, "query")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	now := c.now().In(c.loc)
	var message string
	switch strings.ToLower(query) {
	case "date":
		message = "Today is " + now.Format("January 2, 2006")
	case "time":
		message = "The time is " + now.Format("3:04 PM")
	case "day":
		message = "Today is " + now.Format("Monday")
	case "timezone":
		message = "Your timezone is " + c.loc.String()
	default:
		message = now.Format("January 2, 2006 at 3:04 PM")
	}

	return entity.ExecutionResult{
		Success: true,
		Message: message,
		Data:    param.Params{"iso8601": param.String(now.Format(time.RFC3339))},
	}, nil
}
