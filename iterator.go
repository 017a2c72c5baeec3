package wildfire

import (
	"context"
	"errors"
	"iter"
	"slices"
)

// MaxVerdictsPerRequest is the largest hash list WildFire accepts in one
// verdicts request.
const MaxVerdictsPerRequest = 500

// ErrEmptyIterator is returned by First when the iterator yields no items.
var ErrEmptyIterator = errors.New("iterator is empty")

// VerdictsBatched returns an iterator over verdicts results for hashes,
// issuing one request per MaxVerdictsPerRequest hashes. Requests are sent
// lazily as you iterate and iteration stops at the first error.
func (c *Client) VerdictsBatched(ctx context.Context, hashes []string, opts ...RequestOption) iter.Seq2[*Result, error] {
	return func(yield func(*Result, error) bool) {
		for batch := range slices.Chunk(hashes, MaxVerdictsPerRequest) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			result, err := c.Verdicts(ctx, batch, opts...)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(result, nil) {
				return
			}
		}
	}
}

// Collect gathers all items from an iterator into a slice.
// It stops on the first error and returns all items collected so far along with the error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	result := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return result, err
		}
		result = append(result, item)
	}
	return result, nil
}

// First returns the first item from an iterator, or an error if the iterator is empty or fails.
func First[T any](seq iter.Seq2[T, error]) (T, error) {
	for item, err := range seq {
		return item, err
	}
	var zero T
	return zero, ErrEmptyIterator
}
