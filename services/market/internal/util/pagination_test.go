package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("abc", 5))
	assert.Equal(t, 12, ParseIntDefault("12", 5))
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size  int
		offset, lim int
	}{
		{page: 1, size: 10, offset: 0, lim: 10},
		{page: 3, size: 10, offset: 20, lim: 10},
		{page: 0, size: 0, offset: 0, lim: DefaultPageSize},
		{page: 2, size: 1000, offset: MaxPageSize, lim: MaxPageSize},
	}
	for _, tt := range tests {
		off, lim := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, off)
		assert.Equal(t, tt.lim, lim)
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 10, 10, 25)
	assert.EqualValues(t, 3, m.TotalPages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	m = NewMeta(3, 20, 10, 25)
	assert.False(t, m.HasNext)

	m = NewMeta(1, 0, 20, 0)
	assert.EqualValues(t, 0, m.TotalPages)
	assert.False(t, m.HasPrev)
	assert.False(t, m.HasNext)
}
