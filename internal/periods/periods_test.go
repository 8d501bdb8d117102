package periods

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var halfMonths = []Range{
	{Period: 1, StartDay: 1, EndDay: 15},
	{Period: 2, StartDay: 16, EndDay: 31},
}

func TestResolve(t *testing.T) {
	t.Run("second half of the month", func(t *testing.T) {
		assert.Equal(t, "2024-03-2", Resolve(date(2024, time.March, 16), halfMonths))
	})

	t.Run("first half of the month", func(t *testing.T) {
		assert.Equal(t, "2024-03-1", Resolve(date(2024, time.March, 15), halfMonths))
	})

	t.Run("month is zero padded", func(t *testing.T) {
		assert.Equal(t, "2025-11-2", Resolve(date(2025, time.November, 30), halfMonths))
		assert.Equal(t, "2025-01-1", Resolve(date(2025, time.January, 1), halfMonths))
	})

	t.Run("first match wins on overlap", func(t *testing.T) {
		overlapping := []Range{
			{Period: 1, StartDay: 1, EndDay: 20},
			{Period: 2, StartDay: 15, EndDay: 28},
		}
		assert.Equal(t, "2024-05-1", Resolve(date(2024, time.May, 18), overlapping))
	})

	t.Run("configuration order beats period number", func(t *testing.T) {
		reversed := []Range{
			{Period: 3, StartDay: 10, EndDay: 20},
			{Period: 1, StartDay: 1, EndDay: 31},
		}
		assert.Equal(t, "2024-05-3", Resolve(date(2024, time.May, 12), reversed))
		assert.Equal(t, "2024-05-1", Resolve(date(2024, time.May, 25), reversed))
	})

	t.Run("empty list always falls back to period one", func(t *testing.T) {
		for day := 1; day <= 31; day++ {
			assert.Equal(t, "2024-01-1", Resolve(date(2024, time.January, day), nil))
		}
	})

	t.Run("gap falls back to period one", func(t *testing.T) {
		gapped := []Range{
			{Period: 2, StartDay: 1, EndDay: 10},
			{Period: 3, StartDay: 20, EndDay: 31},
		}
		assert.Equal(t, "2024-07-1", Resolve(date(2024, time.July, 15), gapped))
	})

	t.Run("inverted range never matches", func(t *testing.T) {
		inverted := []Range{{Period: 4, StartDay: 25, EndDay: 5}}
		assert.Equal(t, "2024-07-1", Resolve(date(2024, time.July, 28), inverted))
		assert.Equal(t, "2024-07-1", Resolve(date(2024, time.July, 2), inverted))
	})
}

func TestResolve_LabelAlwaysFromListOrFallback(t *testing.T) {
	configs := [][]Range{
		nil,
		halfMonths,
		{{Period: 7, StartDay: 5, EndDay: 9}},
		{{Period: 2, StartDay: 1, EndDay: 31}, {Period: 5, StartDay: 1, EndDay: 31}},
		{{Period: 9, StartDay: 20, EndDay: 10}, {Period: 4, StartDay: 28, EndDay: 31}},
	}

	for ci, ranges := range configs {
		allowed := map[string]bool{"1": true}
		for _, r := range ranges {
			allowed[fmt.Sprint(r.Period)] = true
		}
		for day := 1; day <= 31; day++ {
			label := Resolve(date(2024, time.January, day), ranges)
			parts := strings.Split(label, "-")
			require.Len(t, parts, 3, "config %d day %d", ci, day)
			assert.True(t, allowed[parts[2]], "config %d day %d produced %s", ci, day, label)
		}
	}
}

func TestParseLabel(t *testing.T) {
	year, month, period, err := ParseLabel("2024-03-2")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.March, month)
	assert.Equal(t, 2, period)

	for _, bad := range []string{"", "2024-03", "2024-13-1", "2024-03-0", "abcd-03-1"} {
		_, _, _, err := ParseLabel(bad)
		assert.Error(t, err, bad)
	}
}

func TestLessLabel(t *testing.T) {
	assert.True(t, LessLabel("2023-12-2", "2024-01-1"))
	assert.True(t, LessLabel("2024-01-2", "2024-01-10"))
	assert.False(t, LessLabel("2024-02-1", "2024-01-3"))
	assert.True(t, LessLabel("2024-02-1", "garbage"))
}
