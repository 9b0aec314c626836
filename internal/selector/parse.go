// Package selector implements the interactive pick protocol: a candidate list
// is printed with 0-based indices and the operator answers with a single
// index, a comma separated list of indices or a slice such as "2:", ":5" or
// "::2".
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSelection is wrapped by every error returned from Parse.
var ErrInvalidSelection = errors.New("invalid selection")

// Parse maps a selection expression onto indices of a list of length n.
//
// A ':' or '-' anywhere in expr selects slice parsing, otherwise a ',' selects
// a comma list, otherwise expr must be a single index. Slices follow Python
// semantics: every component is optional, negative values count from the end
// and out of range bounds are clamped. List and single indices must lie in
// [0, n). The order of a comma list is kept, repeats included.
func Parse(expr string, n int) ([]int, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case strings.ContainsAny(expr, ":-"):
		return parseSlice(expr, n)
	case strings.Contains(expr, ","):
		return parseList(expr, n)
	default:
		idx, err := parseIndex(expr, n)
		if err != nil {
			return nil, err
		}
		return []int{idx}, nil
	}
}

func parseIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, s)
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidSelection, idx, n)
	}
	return idx, nil
}

func parseList(expr string, n int) ([]int, error) {
	fields := strings.Split(expr, ",")
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		idx, err := parseIndex(f, n)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func parseSlice(expr string, n int) ([]int, error) {
	fields := strings.Split(expr, ":")
	if len(fields) > 3 {
		return nil, fmt.Errorf("%w: slice %q has too many components", ErrInvalidSelection, expr)
	}

	components := make([]*int, 3)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, f)
		}
		components[i] = &v
	}

	// A lone component is the stop bound, as with slice(x).
	start, stop, step := components[0], components[1], components[2]
	if len(fields) == 1 {
		start, stop = nil, components[0]
	}
	return sliceIndices(start, stop, step, n)
}

func sliceIndices(start, stop, step *int, n int) ([]int, error) {
	st := 1
	if step != nil {
		st = *step
	}
	if st == 0 {
		return nil, fmt.Errorf("%w: slice step cannot be zero", ErrInvalidSelection)
	}

	lower, upper := 0, n
	if st < 0 {
		lower, upper = -1, n-1
	}

	clamp := func(v *int, def int) int {
		if v == nil {
			return def
		}
		x := *v
		if x < 0 {
			x += n
			if x < lower {
				x = lower
			}
		} else if x > upper {
			x = upper
		}
		return x
	}

	var from, to int
	if st > 0 {
		from, to = clamp(start, lower), clamp(stop, upper)
	} else {
		from, to = clamp(start, upper), clamp(stop, lower)
	}

	indices := []int{}
	if st > 0 {
		for i := from; i < to; i += st {
			indices = append(indices, i)
		}
	} else {
		for i := from; i > to; i += st {
			indices = append(indices, i)
		}
	}
	return indices, nil
}
