package echoapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mahudhurio/core"
)

const dateLayout = "2006-01-02"

// TimeRange binds the `from` and `to` query params.
// Both accept RFC 3339 timestamps or plain dates; a plain `to` date includes the whole day.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (tr *TimeRange) Bind(ctx echo.Context, loc *time.Location) error {
	var fldErrs []core.FieldError
	var err error

	if tr.From, err = parseTimeParam(ctx.QueryParam("from"), loc, false); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "from", Error: "invalid date"})
	}
	if tr.To, err = parseTimeParam(ctx.QueryParam("to"), loc, true); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "to", Error: "invalid date"})
	}
	if fldErrs != nil {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

func parseTimeParam(val string, loc *time.Location, endOfDay bool) (time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.UTC(), nil
	}
	day, err := time.ParseInLocation(dateLayout, val, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return day.UTC(), nil
}

// intParam reads an optional integer query param in [1, max].
func intParam(ctx echo.Context, name string, def, max int) (int, error) {
	val := strings.TrimSpace(ctx.QueryParam(name))
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a positive integer"})
	}
	if n > max {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: fmt.Sprintf("must not exceed %d", max)})
	}
	return n, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
