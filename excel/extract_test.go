package excel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_HeaderAndRows(t *testing.T) {
	s := NewMemorySheet("People",
		[]any{"Name", "Age", "City"},
		[]any{"Ada", 36},
		nil,
		[]any{"Grace", 45, "NYC"},
	)
	g, err := Extract(s)
	require.NoError(t, err)

	require.True(t, g.HasHeader())
	assert.Equal(t, []string{"Name", "Age", "City"}, g.HeaderNames())
	assert.Equal(t, 0, g.Header.Index)

	require.Len(t, g.Rows, 2)
	ada := g.Rows[0]
	assert.Equal(t, 1, ada.Index)
	assert.Equal(t, "People", ada.Sheet)
	assert.Equal(t, 3, ada.Width(), "short rows are padded to the sheet width")
	assert.True(t, ada.Cell(2).IsAbsent())
	assert.Equal(t, Number(1), ada.Cell(3))

	assert.Equal(t, 3, g.Rows[1].Index, "physical index survives skipped rows")
}

func TestExtract_WithoutHeader(t *testing.T) {
	s := NewMemorySheet("S", []any{"a"}, []any{"b"})
	g, err := NewExtractor(nil, false).Extract(s)
	require.NoError(t, err)
	assert.False(t, g.HasHeader())
	assert.Len(t, g.Rows, 2)
}

func TestExtract_HeaderSkipsLeadingEmptyRows(t *testing.T) {
	s := NewMemorySheet("S", nil, nil, []any{"H"}, []any{"v"})
	g, err := Extract(s)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Header.Index)
	require.Len(t, g.Rows, 1)
	assert.Equal(t, Text("v"), g.Rows[0].Cell(0))
}

func TestExtract_EmptySheet(t *testing.T) {
	g, err := Extract(NewMemorySheet("S"))
	require.NoError(t, err)
	assert.False(t, g.HasHeader())
	assert.Empty(t, g.Rows)
}

func TestExtract_SourceError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := Extract(NewFailingSheet("S", boom))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestAggregate_GroupsAcrossSheets(t *testing.T) {
	s1 := NewMemorySheet("Jan",
		[]any{"Id", "Amount"},
		[]any{"k1", 10},
		[]any{"k2", 20},
	)
	s2 := NewMemorySheet("Feb",
		[]any{"Id", "Amount"},
		[]any{"k2", 30},
		[]any{"k3", 40},
	)
	groups, stats, err := Aggregate([]Sheet{s1, s2}, FirstColumn())
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Jan", "Feb"}, sheets(groups[1].Rows))
	for _, g := range groups {
		assert.Equal(t, []string{"Id", "Amount"}, g.HeaderNames())
	}
	assert.Equal(t, 4, stats.Input)
	assert.Equal(t, 4, stats.Grouped)
}

func TestAggregate_Errors(t *testing.T) {
	ok := NewMemorySheet("A", []any{"Id"}, []any{"x"})

	_, _, err := Aggregate([]Sheet{ok, NewFailingSheet("B", errors.New("nope"))}, FirstColumn())
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	other := NewMemorySheet("C", []any{"Key"}, []any{"x"})
	_, _, err = Aggregate([]Sheet{ok, other}, FirstColumn())
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	groups, _, err := NewAggregator(nil, NewGrouper(nil, true)).Aggregate([]Sheet{ok, other}, FirstColumn())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Id"}, groups[0].HeaderNames())
}
