package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		expr string
		n    int
		want []int
	}{
		{"0", 3, []int{0}},
		{" 2 ", 3, []int{2}},
		{"2,0,2", 3, []int{2, 0, 2}},
		{"1, 2", 3, []int{1, 2}},
		{"1:3", 5, []int{1, 2}},
		{":", 3, []int{0, 1, 2}},
		{"::", 3, []int{0, 1, 2}},
		{"::2", 5, []int{0, 2, 4}},
		{"2:", 4, []int{2, 3}},
		{":2", 4, []int{0, 1}},
		{"1:100", 3, []int{1, 2}},
		{"-2:", 4, []int{2, 3}},
		{"-1", 4, []int{0, 1, 2}},
		{"::-1", 3, []int{2, 1, 0}},
		{"3:0:-1", 5, []int{3, 2, 1}},
		{"4:2", 5, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		expr string
		n    int
	}{
		{"abc", 3},
		{"", 3},
		{"99", 3},
		{"3", 3},
		{"1,5", 3},
		{"1,", 3},
		{"1:a", 3},
		{"::0", 3},
		{"1:2:3:4", 5},
		{"-1,2", 3},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Parse(tt.expr, tt.n)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSelection))
		})
	}
}

func TestParse_SliceMatchesFullRangeForEveryLength(t *testing.T) {
	for n := 1; n <= 6; n++ {
		got, err := Parse(":", n)
		require.NoError(t, err)
		require.Len(t, got, n)
		for i := range got {
			assert.Equal(t, i, got[i])
		}
	}
}
