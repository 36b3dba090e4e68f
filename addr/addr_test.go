package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnFromLetter(t *testing.T) {
	cases := []struct {
		in      string
		want    Column
		wantErr bool
	}{
		{"A", 0, false},
		{"a", 0, false},
		{"Z", 25, false},
		{"AA", 26, false},
		{"XFD", MaxColumn, false},
		{"XFE", 0, true},
		{"", 0, true},
		{"1A", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ColumnFromLetter(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tc.want, got)
		})
	}
}

func TestColumnLetterRoundTrip(t *testing.T) {
	for _, letter := range []string{"A", "Z", "AA", "AZ", "BA", "XFD"} {
		col, err := ColumnFromLetter(letter)
		require.NoError(t, err)
		assert.Equal(t, letter, col.Letter())
	}
}

func TestRowFromNumber(t *testing.T) {
	_, err := RowFromNumber(0)
	require.Error(t, err)
	r, err := RowFromNumber(1)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Index())
	r, err = RowFromNumber(1048576)
	require.NoError(t, err)
	assert.Equal(t, int(MaxRow), r.Index())
	_, err = RowFromNumber(1048577)
	require.Error(t, err)
}

func TestARefRoundTrip(t *testing.T) {
	for _, s := range []string{"A1", "Z1", "AA100", "XFD1048576"} {
		ref, err := ParseARef(s)
		require.NoError(t, err)
		assert.Equal(t, s, ref.A1())
	}
}

func TestAnchorRoundTrip(t *testing.T) {
	cases := []string{"A1", "$A1", "A$1", "$A$1"}
	for _, s := range cases {
		ref, anchor, err := ParseAnchoredARef(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatARef(ref, anchor))
	}
}

func TestParseCellRange(t *testing.T) {
	t.Run("standard", func(t *testing.T) {
		rng, err := ParseCellRange("A1:B10")
		require.NoError(t, err)
		assert.Equal(t, "A1:B10", rng.A1())
		assert.False(t, rng.IsFullColumn())
		assert.False(t, rng.IsFullRow())
	})
	t.Run("full column", func(t *testing.T) {
		rng, err := ParseCellRange("A:C")
		require.NoError(t, err)
		assert.True(t, rng.IsFullColumn())
		assert.Equal(t, Row(0), rng.Start.Row())
		assert.Equal(t, MaxRow, rng.End.Row())
	})
	t.Run("full row", func(t *testing.T) {
		rng, err := ParseCellRange("3:5")
		require.NoError(t, err)
		assert.True(t, rng.IsFullRow())
		assert.Equal(t, Column(0), rng.Start.Col())
		assert.Equal(t, MaxColumn, rng.End.Col())
	})
	t.Run("anchored", func(t *testing.T) {
		rng, err := ParseCellRange("$A$1:B10")
		require.NoError(t, err)
		assert.True(t, rng.StartAnchor.HasAbsCol())
		assert.True(t, rng.StartAnchor.HasAbsRow())
		assert.False(t, rng.EndAnchor.HasAbsCol())
	})
}

func TestCellRangeCellsIsLazy(t *testing.T) {
	rng, err := ParseCellRange("A1:B2")
	require.NoError(t, err)
	var got []string
	for ref := range rng.Cells() {
		got = append(got, ref.A1())
		if len(got) == 2 {
			break // confirm the iterator honors an early yield=false stop
		}
	}
	assert.Equal(t, []string{"A1", "B1"}, got)
}

func TestSheetNameValidation(t *testing.T) {
	_, err := NewSheetName("")
	require.Error(t, err)
	longName := ""
	for i := 0; i < 31; i++ {
		longName += "a"
	}
	_, err = NewSheetName(longName)
	require.NoError(t, err)
	_, err = NewSheetName(longName + "a")
	require.Error(t, err)
	_, err = NewSheetName("Sheet:1")
	require.Error(t, err)
	_, err = NewSheetName("History")
	require.Error(t, err)
}

func TestRefTypeParseQualified(t *testing.T) {
	t.Run("needs quoting", func(t *testing.T) {
		rt, err := ParseRefType("'My Sheet'!A1")
		require.NoError(t, err)
		assert.Equal(t, KindQualifiedCell, rt.Kind)
		assert.Equal(t, "My Sheet", string(rt.Sheet))
		assert.Equal(t, "'My Sheet'!A1", rt.A1())
	})
	t.Run("escaped quote", func(t *testing.T) {
		rt, err := ParseRefType("'It''s Mine'!A1:B2")
		require.NoError(t, err)
		assert.Equal(t, KindQualifiedRange, rt.Kind)
		assert.Equal(t, "It's Mine", string(rt.Sheet))
		assert.Equal(t, "'It''s Mine'!A1:B2", rt.A1())
	})
	t.Run("no quoting needed", func(t *testing.T) {
		rt, err := ParseRefType("Sheet1!A1")
		require.NoError(t, err)
		assert.Equal(t, "Sheet1!A1", rt.A1())
	})
	t.Run("unqualified", func(t *testing.T) {
		rt, err := ParseRefType("A1")
		require.NoError(t, err)
		assert.Equal(t, KindCell, rt.Kind)
	})
	t.Run("unbalanced quotes", func(t *testing.T) {
		_, err := ParseRefType("'Sheet!A1")
		require.Error(t, err)
	})
	t.Run("reserved sheet name", func(t *testing.T) {
		_, err := ParseRefType("history!A1")
		require.Error(t, err)
	})
}
