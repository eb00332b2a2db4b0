package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 42, ParseIntDefault("42", 1))
	assert.Equal(t, 7, ParseIntDefault("not-a-number", 7))
}

func TestCalculate(t *testing.T) {
	offset, limit := Calculate(1, 10)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 10, limit)

	offset, limit = Calculate(3, 20)
	assert.Equal(t, 40, offset)
	assert.Equal(t, 20, limit)

	offset, limit = Calculate(0, 0)
	assert.Equal(t, 0, offset)
	assert.Equal(t, DefaultPageSize, limit)

	offset, limit = Calculate(2, 500)
	assert.Equal(t, DefaultPageSize, limit)
	assert.Equal(t, DefaultPageSize, offset)
}
