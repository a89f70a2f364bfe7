package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcraft/internal/apperr"
)

func ptrInt(i int) *int { return &i }

func TestParseTransformation(t *testing.T) {
	tr, err := ParseTransformation("UPPERCASE")
	require.NoError(t, err)
	assert.Equal(t, TransformUppercase, tr)
	_, err = ParseTransformation("sparkle")
	assert.True(t, apperr.IsValidation(err))
}

func TestTransformCase(t *testing.T) {
	g, err := New([]string{"name"}, [][]Value{
		{String("ann lee")},
		{Empty()},
	})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("name", TransformUppercase, TransformParams{}))
	assert.Equal(t, "ANN LEE", g.Row(0)[0].String())
	assert.True(t, g.Row(1)[0].IsEmpty())

	require.NoError(t, g.TransformColumn("name", TransformLowercase, TransformParams{}))
	assert.Equal(t, "ann lee", g.Row(0)[0].String())

	require.NoError(t, g.TransformColumn("name", TransformTitlecase, TransformParams{}))
	assert.Equal(t, "Ann Lee", g.Row(0)[0].String())
}

func TestTransformTitlecaseWithSplit(t *testing.T) {
	g, err := New([]string{"contact"}, [][]Value{
		{String("lee, ann")},
	})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("contact", TransformTitlecase, TransformParams{
		SplitOn:   ",",
		PartIndex: ptrInt(1),
	}))
	assert.Equal(t, "lee,Ann", g.Row(0)[0].String())
}

func TestTransformRound(t *testing.T) {
	g, err := New([]string{"price"}, [][]Value{
		{Number(3.14159)},
		{String("2.71828")},
		{Empty()},
	})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("price", TransformRound, TransformParams{Decimals: ptrInt(2)}))
	assert.Equal(t, "3.14", g.Row(0)[0].String())
	assert.Equal(t, "2.72", g.Row(1)[0].String())
	assert.True(t, g.Row(2)[0].IsEmpty())
}

func TestTransformRoundDefaultsToWhole(t *testing.T) {
	g, err := New([]string{"n"}, [][]Value{{Number(2.6)}})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("n", TransformRound, TransformParams{}))
	assert.Equal(t, "3", g.Row(0)[0].String())
}

func TestTransformScale(t *testing.T) {
	g, err := New([]string{"price"}, [][]Value{{Number(10)}})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("price", TransformScale, TransformParams{Factor: ptrFloat(1.2)}))
	assert.Equal(t, "12", g.Row(0)[0].String())

	err = g.TransformColumn("price", TransformScale, TransformParams{})
	assert.True(t, apperr.IsValidation(err), "factor is required")
}

func TestTransformFormatDate(t *testing.T) {
	g, err := New([]string{"when"}, [][]Value{
		{String("2024-03-09")},
		{String("03/09/2024")},
	})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("when", TransformFormatDate, TransformParams{
		TargetFormat: "Jan 2, 2006",
	}))
	assert.Equal(t, "Mar 9, 2024", g.Row(0)[0].String())
	assert.Equal(t, "Mar 9, 2024", g.Row(1)[0].String())
}

func TestTransformFormatDateWithSourceFormat(t *testing.T) {
	g, err := New([]string{"when"}, [][]Value{
		{String("09.03.2024")},
	})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("when", TransformFormatDate, TransformParams{
		SourceFormat: "02.01.2006",
	}))
	assert.Equal(t, "2024-03-09", g.Row(0)[0].String())
}

func TestTransformFormatDateRejectsGarbage(t *testing.T) {
	g, err := New([]string{"when"}, [][]Value{
		{String("2024-03-09")},
		{String("not a date")},
	})
	require.NoError(t, err)
	before := g.Clone()
	err = g.TransformColumn("when", TransformFormatDate, TransformParams{})
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, before.Document(), g.Document())
}

func TestTransformPercentOfTotal(t *testing.T) {
	g, err := New([]string{"sales"}, [][]Value{
		{Number(25)},
		{Number(75)},
		{Empty()},
	})
	require.NoError(t, err)
	require.NoError(t, g.TransformColumn("sales", TransformPercentOfTotal, TransformParams{}))
	assert.Equal(t, "25", g.Row(0)[0].String())
	assert.Equal(t, "75", g.Row(1)[0].String())
	assert.True(t, g.Row(2)[0].IsEmpty())
}

func TestTransformPercentOfTotalZeroTotal(t *testing.T) {
	g, err := New([]string{"sales"}, [][]Value{
		{Number(5)},
		{Number(-5)},
	})
	require.NoError(t, err)
	err = g.TransformColumn("sales", TransformPercentOfTotal, TransformParams{})
	assert.True(t, apperr.IsValidation(err))
}

func TestTransformColumnNotFound(t *testing.T) {
	g := peopleGrid(t)
	err := g.TransformColumn("ghost", TransformUppercase, TransformParams{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestTransformNonNumericLeavesGridUnchanged(t *testing.T) {
	g, err := New([]string{"n"}, [][]Value{
		{Number(1)},
		{String("oops")},
	})
	require.NoError(t, err)
	before := g.Clone()
	err = g.TransformColumn("n", TransformRound, TransformParams{})
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, before.Document(), g.Document())
}
