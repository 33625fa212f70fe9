package excel

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"whole number", Number(36), "36.0"},
		{"negative", Number(-2), "-2.0"},
		{"fraction", Number(1234.5), "1234.5"},
		{"zero", Number(0), "0.0"},
		{"small plain", Number(0.001), "0.001"},
		{"large scientific", Number(1e7), "1.0E7"},
		{"large mantissa", Number(12345678), "1.2345678E7"},
		{"tiny scientific", Number(0.0001), "1.0E-4"},
		{"nan", Number(math.NaN()), "NaN"},
		{"inf", Number(math.Inf(1)), "Infinity"},
		{"text", Text("Ada"), "Ada"},
		{"bool", Bool(true), "true"},
		{"date", Date(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)), "2023-03-15T00:00:00Z"},
		{"absent", Absent(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_Kinds(t *testing.T) {
	assert.True(t, Absent().IsAbsent())
	assert.Equal(t, KindNumber, Number(1).Kind())
	assert.Equal(t, KindText, Text("x").Kind())
	assert.Equal(t, KindBoolean, Bool(false).Kind())
	assert.Equal(t, KindDate, Date(time.Now()).Kind())

	assert.Nil(t, Absent().Interface())
	assert.Equal(t, 2.5, Number(2.5).Interface())
	assert.Equal(t, "x", Text("x").Interface())
	assert.Equal(t, true, Bool(true).Interface())
}

func TestValue_EqualAndKey(t *testing.T) {
	utc := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	local := utc.In(time.FixedZone("X", 3600))

	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Text("1")))
	assert.True(t, Absent().Equal(Absent()))
	assert.True(t, Date(utc).Equal(Date(local)))

	assert.Equal(t, Number(1).Key(), Number(1).Key())
	assert.NotEqual(t, Number(1).Key(), Text("1").Key())
	assert.Equal(t, Date(utc).Key(), Date(local).Key())

	m := map[any]int{Text("a").Key(): 1}
	assert.Equal(t, 1, m[Text("a").Key()])
}
