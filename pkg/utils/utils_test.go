package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1000.0 / 300.0, 3.33},
		{2.675, 2.68},
		{-512.345, -512.35},
		{400.00000000000006 - 300, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundWithTwoDecimalPlace(tt.in))
	}
}

func TestGenerateID(t *testing.T) {
	first, err := GenerateID()
	require.NoError(t, err)
	second, err := GenerateID()
	require.NoError(t, err)

	assert.Len(t, first, idLength)
	assert.NotEqual(t, first, second)
	assert.Regexp(t, "^[A-Za-z0-9]+$", first)
}
