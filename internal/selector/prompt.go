package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrNoInput is returned when the input stream ends before a valid answer.
var ErrNoInput = errors.New("no more input")

// InputParseError is returned when the attempt limit is exhausted.
type InputParseError struct {
	Input    string
	Attempts int
	Err      error
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("no valid selection after %d attempts (last input %q): %v", e.Attempts, e.Input, e.Err)
}

func (e *InputParseError) Unwrap() error {
	return e.Err
}

type lineResult struct {
	line string
	err  error
}

// Prompter reads operator answers line by line. Reads are cancellable.
type Prompter struct {
	in  io.Reader
	out io.Writer

	// MaxAttempts bounds the number of rejected answers per question.
	// Zero means unbounded.
	MaxAttempts int

	once  sync.Once
	lines chan lineResult
}

// NewPrompter creates a prompter reading from in and writing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Out returns the writer prompts and listings go to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

func (p *Prompter) start() {
	p.once.Do(func() {
		p.lines = make(chan lineResult)
		go func() {
			defer close(p.lines)
			r := bufio.NewReader(p.in)
			for {
				s, err := r.ReadString('\n')
				if s != "" || err == nil {
					p.lines <- lineResult{line: strings.TrimRight(s, "\r\n")}
				}
				if err != nil {
					p.lines <- lineResult{err: err}
					return
				}
			}
		}()
	})
}

// ReadLine prints prompt and waits for one line of input.
func (p *Prompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	p.start()
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok || errors.Is(res.err, io.EOF) {
			return "", ErrNoInput
		}
		if res.err != nil {
			return "", fmt.Errorf("reading input: %w", res.err)
		}
		return strings.TrimSpace(res.line), nil
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.ReadLine(ctx, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Select prints items with their indices and asks until the answer is a
// valid selection expression. Invalid answers re-prompt silently. An empty
// candidate list returns an empty result without prompting.
func Select[T any](ctx context.Context, p *Prompter, prompt string, items []T, label func(T) string) ([]T, error) {
	if len(items) == 0 {
		return []T{}, nil
	}

	fmt.Fprintln(p.out)
	for i, item := range items {
		fmt.Fprintf(p.out, "%d %s\n", i, label(item))
	}
	fmt.Fprintln(p.out)

	attempts := 0
	for {
		input, err := p.ReadLine(ctx, prompt+": ")
		if err != nil {
			return nil, err
		}

		indices, err := Parse(input, len(items))
		if err == nil {
			chosen := make([]T, 0, len(indices))
			for _, idx := range indices {
				chosen = append(chosen, items[idx])
			}
			return chosen, nil
		}

		attempts++
		if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
			return nil, &InputParseError{Input: input, Attempts: attempts, Err: err}
		}
	}
}
