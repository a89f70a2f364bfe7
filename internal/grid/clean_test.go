package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcraft/internal/apperr"
)

func TestParseCleanMethod(t *testing.T) {
	m, err := ParseCleanMethod("Mean")
	require.NoError(t, err)
	assert.Equal(t, CleanMean, m)
	_, err = ParseCleanMethod("mode")
	assert.True(t, apperr.IsValidation(err))
}

func TestCleanMeanFillsNumericBlanks(t *testing.T) {
	g, err := New([]string{"name", "score"}, [][]Value{
		{String("Ann"), Number(10)},
		{String("Bob"), Empty()},
		{String("Cee"), Number(20)},
	})
	require.NoError(t, err)
	filled, err := g.Clean(CleanMean)
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "15", g.Row(1)[1].String())
	// text column with blanks untouched
	assert.Equal(t, "Bob", g.Row(1)[0].String())
}

func TestCleanMedian(t *testing.T) {
	g, err := New([]string{"score"}, [][]Value{
		{Number(1)},
		{Number(2)},
		{Number(100)},
		{Empty()},
	})
	require.NoError(t, err)
	filled, err := g.Clean(CleanMedian)
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "2", g.Row(3)[0].String())
}

func TestCleanSkipsNonNumericColumns(t *testing.T) {
	g, err := New([]string{"note"}, [][]Value{
		{String("hello")},
		{Empty()},
	})
	require.NoError(t, err)
	filled, err := g.Clean(CleanMean)
	require.NoError(t, err)
	assert.Equal(t, 0, filled)
	assert.True(t, g.Row(1)[0].IsEmpty())
}

func TestCleanDrop(t *testing.T) {
	g, err := New([]string{"name", "score"}, [][]Value{
		{String("Ann"), Number(10)},
		{String("Bob"), Empty()},
		{Empty(), Number(5)},
	})
	require.NoError(t, err)
	dropped, err := g.Clean(CleanDrop)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	require.Equal(t, 1, g.NumRows())
	assert.Equal(t, "Ann", g.Row(0)[0].String())
}
