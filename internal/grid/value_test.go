package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRendering(t *testing.T) {
	assert.Equal(t, "", Empty().String())
	assert.Equal(t, "Ann", String("Ann").String())
	assert.Equal(t, "30", Number(30).String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "TRUE", Bool(true).String())
	assert.Equal(t, "FALSE", Bool(false).String())
}

func TestEmptyStringIsEmpty(t *testing.T) {
	assert.True(t, String("").IsEmpty())
	assert.False(t, String(" ").IsEmpty())
}

func TestAsNumber(t *testing.T) {
	f, ok := Number(3.5).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.5, f)

	f, ok = String(" 42 ").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 42.0, f)

	_, ok = String("abc").AsNumber()
	assert.False(t, ok)
	_, ok = Empty().AsNumber()
	assert.False(t, ok)
	_, ok = Bool(true).AsNumber()
	assert.False(t, ok)
}

func TestEqualComparesRenderedForms(t *testing.T) {
	assert.True(t, Number(25).Equal(String("25")))
	assert.True(t, Empty().Equal(String("")))
	assert.False(t, String("Bob").Equal(String("bob")))
}

func TestFromCell(t *testing.T) {
	v, err := FromCell(nil)
	require.NoError(t, err)
	assert.True(t, v.IsEmpty())

	v, err = FromCell(12.0)
	require.NoError(t, err)
	assert.Equal(t, KindNumber, v.Kind())

	v, err = FromCell(true)
	require.NoError(t, err)
	assert.Equal(t, KindBool, v.Kind())

	_, err = FromCell([]string{"nested"})
	assert.Error(t, err)
}

func TestValueJSONRoundTrip(t *testing.T) {
	values := []Value{Empty(), String("x"), Number(1.25), Bool(true)}
	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var back Value
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, v, back)
	}
}

func TestValueJSONRejectsComposites(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
}
