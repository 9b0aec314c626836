package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"", Download},
		{"download", Download},
		{" Delete ", Delete},
		{"WATCHED", Watched},
		{"unwatched", Unwatched},
		{"refresh", Refresh},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unsupported(t *testing.T) {
	_, err := Parse("__class__")
	require.Error(t, err)

	var unsupported *UnsupportedActionError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "__class__", unsupported.Name)
	assert.Contains(t, err.Error(), "delete, download, refresh, unwatched, watched")
}

func TestDestructiveAndMutating(t *testing.T) {
	assert.True(t, Delete.Destructive())
	assert.False(t, Watched.Destructive())
	assert.False(t, Download.Mutating())
	assert.True(t, Refresh.Mutating())
}
