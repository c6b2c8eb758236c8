// Package window turns optional report date bounds into an inclusive
// calendar-day range, the preceding range of equal length, and period buckets.
package window

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// Window is an inclusive range of calendar days. An empty Start or End
// leaves that side unbounded.
type Window struct {
	Start string
	End   string
	// Prior is the preceding range of the same length. Only set when both
	// bounds are present.
	Prior *Window
}

// Resolve validates the optional bounds and computes the prior period.
func Resolve(start, end string) (Window, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)

	startDay, err := parseDay(start)
	if err != nil {
		return Window{}, err
	}
	endDay, err := parseDay(end)
	if err != nil {
		return Window{}, err
	}

	w := Window{Start: start, End: end}
	if start == "" || end == "" {
		return w, nil
	}
	if startDay.After(endDay) {
		return Window{}, apperror.InvalidInput("start date %s is after end date %s", start, end)
	}

	days := int(endDay.Sub(startDay).Hours()/24) + 1
	priorEnd := startDay.AddDate(0, 0, -1)
	priorStart := priorEnd.AddDate(0, 0, -(days - 1))
	w.Prior = &Window{
		Start: priorStart.Format(model.DateLayout),
		End:   priorEnd.Format(model.DateLayout),
	}
	return w, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.Wrap(apperror.KindInvalidInput, ErrInvalidDateFormat, "invalid date %q", s)
	}
	return t, nil
}

// Days returns the number of calendar days covered, or 0 when unbounded.
func (w Window) Days() int {
	if w.Start == "" || w.End == "" {
		return 0
	}
	s, _ := time.Parse(model.DateLayout, w.Start)
	e, _ := time.Parse(model.DateLayout, w.End)
	return int(e.Sub(s).Hours()/24) + 1
}

// Apply adds the window predicates on dayExpr, a SQL expression yielding the
// 'YYYY-MM-DD' calendar day of a timestamp, binding :start_date and :end_date.
func (w Window) Apply(where *database.Where, dayExpr string) *database.Where {
	if w.Start != "" {
		where.And(fmt.Sprintf("%s >= :start_date", dayExpr), "start_date", w.Start)
	}
	if w.End != "" {
		where.And(fmt.Sprintf("%s <= :end_date", dayExpr), "end_date", w.End)
	}
	return where
}

func (w Window) String() string {
	start, end := w.Start, w.End
	if start == "" {
		start = "*"
	}
	if end == "" {
		end = "*"
	}
	return start + ".." + end
}
