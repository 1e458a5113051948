package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataGetters(t *testing.T) {
	d := Data{
		"name":   "extract_trello",
		"count":  "42",
		"ratio":  "0.6",
		"active": "true",
		"boards": []any{"b1", "b2"},
	}

	s, exists := d.GetString("name")
	assert.True(t, exists)
	assert.Equal(t, "extract_trello", s)

	n, exists := d.GetInt("count")
	assert.True(t, exists)
	assert.Equal(t, 42, n)

	f, exists := d.GetFloat64("ratio")
	assert.True(t, exists)
	assert.Equal(t, 0.6, f)

	b, exists := d.GetBool("active")
	assert.True(t, exists)
	assert.True(t, b)

	boards, exists := d.GetStringSlice("boards")
	assert.True(t, exists)
	assert.Equal(t, []string{"b1", "b2"}, boards)

	_, exists = d.Get("absent")
	assert.False(t, exists)
}

func TestDataGetStruct(t *testing.T) {
	type rates struct {
		Currency   string
		HourlyRate float64
	}

	d := Data{}
	d.Set("sheets", map[string]any{"Currency": "AUD", "HourlyRate": 95.0})

	var r rates
	assert.Nil(t, d.GetStruct("sheets", &r))
	assert.Equal(t, "AUD", r.Currency)
	assert.Equal(t, 95.0, r.HourlyRate)

	assert.NotNil(t, d.GetStruct("absent", &r))
}

func TestDataClone(t *testing.T) {
	d := Data{"a": 1}
	c := d.Clone()
	c.Set("b", 2)

	assert.Len(t, d, 1)
	assert.Len(t, c, 2)
}
