package periods

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid list keeps order", func(t *testing.T) {
		list, err := Parse([]byte(`[{"period":2,"start_day":16,"end_day":31},{"period":1,"start_day":1,"end_day":15}]`))
		require.NoError(t, err)
		assert.Equal(t, List{{Period: 2, StartDay: 16, EndDay: 31}, {Period: 1, StartDay: 1, EndDay: 15}}, list)
	})

	t.Run("null and empty input decode to empty list", func(t *testing.T) {
		for _, in := range []string{"", "null", "  ", "[]"} {
			list, err := Parse([]byte(in))
			require.NoError(t, err, in)
			assert.Empty(t, list, in)
		}
	})

	t.Run("inverted range is accepted", func(t *testing.T) {
		list, err := Parse([]byte(`[{"period":1,"start_day":20,"end_day":5}]`))
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	cases := []struct {
		name  string
		input string
		field string
	}{
		{"missing period", `[{"start_day":1,"end_day":15}]`, "period"},
		{"missing end day", `[{"period":1,"start_day":1}]`, "end_day"},
		{"zero period", `[{"period":0,"start_day":1,"end_day":15}]`, "period"},
		{"duplicate period", `[{"period":1,"start_day":1,"end_day":15},{"period":1,"start_day":16,"end_day":31}]`, "period"},
		{"start day out of range", `[{"period":1,"start_day":0,"end_day":15}]`, "start_day"},
		{"end day out of range", `[{"period":1,"start_day":1,"end_day":32}]`, "end_day"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.field, pe.Field)
		})
	}

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := Parse([]byte(`[{"period":1,"start_day":1,"end_day":15,"label":"x"}]`))
		require.Error(t, err)
		assert.True(t, IsParseError(err))
	})

	t.Run("wrong types are rejected", func(t *testing.T) {
		_, err := Parse([]byte(`[{"period":"1","start_day":1,"end_day":15}]`))
		assert.True(t, IsParseError(err))

		_, err = Parse([]byte(`{"period":1}`))
		assert.True(t, IsParseError(err))
	})
}

func TestList_ScanAndValue(t *testing.T) {
	original := List{{Period: 1, StartDay: 1, EndDay: 15}, {Period: 2, StartDay: 16, EndDay: 31}}

	value, err := original.Value()
	require.NoError(t, err)

	var fromString List
	require.NoError(t, fromString.Scan(value))
	assert.True(t, original.Equal(fromString))

	var fromBytes List
	require.NoError(t, fromBytes.Scan([]byte(value.(string))))
	assert.True(t, original.Equal(fromBytes))

	var fromNil List
	require.NoError(t, fromNil.Scan(nil))
	assert.NotNil(t, fromNil)
	assert.Empty(t, fromNil)

	var bad List
	err = bad.Scan([]byte(`[{"period":-1,"start_day":1,"end_day":2}]`))
	assert.True(t, IsParseError(err))

	err = bad.Scan(42)
	assert.True(t, IsParseError(err))
}

func TestList_JSON(t *testing.T) {
	var nilList List
	data, err := json.Marshal(nilList)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var body struct {
		Periods List `json:"periods"`
	}
	err = json.Unmarshal([]byte(`{"periods":[{"period":1,"start_day":1,"end_day":40}]}`), &body)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestList_Equal(t *testing.T) {
	a := List{{Period: 1, StartDay: 1, EndDay: 15}}
	assert.True(t, a.Equal(List{{Period: 1, StartDay: 1, EndDay: 15}}))
	assert.False(t, a.Equal(List{{Period: 1, StartDay: 1, EndDay: 16}}))
	assert.False(t, a.Equal(nil))
}
