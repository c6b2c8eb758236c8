package window

import (
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod accepts day, week, month or year. Empty means day.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", apperror.InvalidInput("unknown period %q, expected day, week, month or year", s)
	}
}

// BucketKey labels the bucket a calendar day falls into. Weeks are ISO 8601
// weeks, so early January days may belong to the previous year's last week.
func BucketKey(day time.Time, p Period) string {
	switch p {
	case PeriodWeek:
		year, week := day.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonth:
		return day.Format("2006-01")
	case PeriodYear:
		return day.Format("2006")
	default:
		return day.Format(model.DateLayout)
	}
}
