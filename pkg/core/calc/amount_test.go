package calc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_Propagation(t *testing.T) {
	u := Undefined()
	five := Known(5)

	assert.False(t, u.Add(five).IsDefined())
	assert.False(t, five.Sub(u).IsDefined())
	assert.False(t, u.Mul(five).IsDefined())
	assert.False(t, five.Div(u).IsDefined())

	v, ok := five.Add(Known(2)).Value()
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
}

func TestAmount_DivByZero(t *testing.T) {
	got := Known(10).Div(Known(0))
	assert.False(t, got.IsDefined())
	assert.Equal(t, 3.0, got.Or(3))
}

func TestKnown_NonFinite(t *testing.T) {
	assert.False(t, Known(math.NaN()).IsDefined())
	assert.False(t, Known(math.Inf(1)).IsDefined())
	assert.False(t, Known(math.MaxFloat64).Mul(Known(10)).IsDefined(), "overflow is not infinity")
}

func TestAmount_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}{Known(0.56), Undefined()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.56,"b":null}`, string(data))

	var back struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Known(0.56), back.A)
	assert.False(t, back.B.IsDefined())
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "n/a", Undefined().String())
	assert.Equal(t, "14", Known(14).String())
}
