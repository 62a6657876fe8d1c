package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "Zero", in: 0, want: 0},
		{name: "Arredonda para cima", in: 1.236, want: 1.24},
		{name: "Arredonda para baixo", in: 2.344, want: 2.34},
		{name: "Negativo", in: -0.126, want: -0.13},
		{name: "Divisão por zero", in: math.Inf(1), want: 0},
		{name: "Indefinido", in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundWithTwoDecimalPlace(tt.in))
		})
	}
}

func TestGenerateJobID(t *testing.T) {
	a, err := GenerateJobID()
	require.NoError(t, err)
	b, err := GenerateJobID()
	require.NoError(t, err)

	assert.Len(t, a, 21)
	assert.NotEqual(t, a, b)
}
