package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func identity(s string) string { return s }

func TestSelect_SingleIndex(t *testing.T) {
	items := []string{"a", "b", "c"}
	for i := range items {
		p, _ := newTestPrompter(fmt.Sprintf("%d\n", i))
		got, err := Select(context.Background(), p, "Choose", items, identity)
		require.NoError(t, err)
		assert.Equal(t, []string{items[i]}, got)
	}
}

func TestSelect_CommaListKeepsOrderAndRepeats(t *testing.T) {
	p, _ := newTestPrompter("2,0,2\n")
	got, err := Select(context.Background(), p, "Choose", []string{"a", "b", "c"}, identity)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "c"}, got)
}

func TestSelect_Slice(t *testing.T) {
	p, _ := newTestPrompter("1:\n")
	got, err := Select(context.Background(), p, "Choose", []string{"a", "b", "c"}, identity)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestSelect_RepromptsUntilValid(t *testing.T) {
	p, out := newTestPrompter("abc\n99\n\n1\n")
	got, err := Select(context.Background(), p, "Choose", []string{"a", "b", "c"}, identity)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, 4, strings.Count(out.String(), "Choose: "))
	assert.Contains(t, out.String(), "0 a\n1 b\n2 c\n")
}

func TestSelect_EmptyCandidatesDoesNotPrompt(t *testing.T) {
	p, out := newTestPrompter("")
	got, err := Select(context.Background(), p, "Choose", []string{}, identity)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, out.String())
}

func TestSelect_MaxAttempts(t *testing.T) {
	p, _ := newTestPrompter("x\ny\nz\n0\n")
	p.MaxAttempts = 2

	_, err := Select(context.Background(), p, "Choose", []string{"a"}, identity)
	var parseErr *InputParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Attempts)
	assert.Equal(t, "y", parseErr.Input)
	assert.True(t, errors.Is(err, ErrInvalidSelection))
}

func TestSelect_EOF(t *testing.T) {
	p, _ := newTestPrompter("bogus\n")
	_, err := Select(context.Background(), p, "Choose", []string{"a"}, identity)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestSelect_LastLineWithoutNewline(t *testing.T) {
	p, _ := newTestPrompter("0")
	got, err := Select(context.Background(), p, "Choose", []string{"a"}, identity)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestReadLine_Cancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewPrompter(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.ReadLine(ctx, "> ")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		p, _ := newTestPrompter(tt.input)
		got, err := p.Confirm(context.Background(), "Proceed?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
