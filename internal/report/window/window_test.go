package window

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePriorPeriod(t *testing.T) {
	w, err := Resolve("2025-06-01", "2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, 3, w.Days())
	require.NotNil(t, w.Prior)
	assert.Equal(t, "2025-05-29", w.Prior.Start)
	assert.Equal(t, "2025-05-31", w.Prior.End)
	assert.Equal(t, 3, w.Prior.Days())
}

func TestResolveSingleDayAcrossYear(t *testing.T) {
	w, err := Resolve("2025-01-01", "2025-01-01")
	require.NoError(t, err)
	require.NotNil(t, w.Prior)
	assert.Equal(t, "2024-12-31", w.Prior.Start)
	assert.Equal(t, "2024-12-31", w.Prior.End)
}

func TestResolveLeapMonth(t *testing.T) {
	w, err := Resolve("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-30", w.Prior.Start)
	assert.Equal(t, "2024-02-29", w.Prior.End)
}

func TestResolveOpenBounds(t *testing.T) {
	for _, tc := range [][2]string{{"", ""}, {"2025-06-01", ""}, {"", "2025-06-03"}} {
		w, err := Resolve(tc[0], tc[1])
		require.NoError(t, err)
		assert.Nil(t, w.Prior)
		assert.Equal(t, 0, w.Days())
	}
}

func TestResolveErrors(t *testing.T) {
	for _, tc := range [][2]string{{"06/01/2025", ""}, {"", "2025-13-01"}, {"2025-06-1", "2025-06-03"}} {
		_, err := Resolve(tc[0], tc[1])
		require.Error(t, err, tc)
		assert.ErrorIs(t, err, ErrInvalidDateFormat)
		assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	}

	_, err := Resolve("2025-06-04", "2025-06-03")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestApply(t *testing.T) {
	w, err := Resolve("2025-06-01", "")
	require.NoError(t, err)

	where := w.Apply(database.NewWhere(), "date(o.created_at)")
	assert.Equal(t, " WHERE date(o.created_at) >= :start_date", where.Clause())
	assert.Equal(t, "2025-06-01", where.Args()["start_date"])
	assert.NotContains(t, where.Args(), "end_date")

	assert.Equal(t, "", Window{}.Apply(database.NewWhere(), "d").Clause())
	assert.Equal(t, "2025-06-01..*", w.String())
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodDay, p)

	p, err = ParsePeriod("Month")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	_, err = ParsePeriod("fortnight")
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestBucketKey(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	assert.Equal(t, "2025-06-03", BucketKey(day("2025-06-03"), PeriodDay))
	assert.Equal(t, "2025-W23", BucketKey(day("2025-06-03"), PeriodWeek))
	assert.Equal(t, "2025-06", BucketKey(day("2025-06-03"), PeriodMonth))
	assert.Equal(t, "2025", BucketKey(day("2025-06-03"), PeriodYear))

	// ISO weeks straddle calendar years.
	assert.Equal(t, "2025-W01", BucketKey(day("2024-12-30"), PeriodWeek))
	assert.Equal(t, "2020-W53", BucketKey(day("2021-01-03"), PeriodWeek))
}
