package flickr

import (
	"context"
	"iter"
)

// PageFunc produces one page of a list-returning operation. The walker owns
// the page number; every other call parameter stays whatever the operation
// was constructed with.
type PageFunc[T any] func(ctx context.Context, page int) (*List[T], error)

// Walker traverses a paginated result set item by item, fetching pages as it
// goes. Construction performs the page-1 call immediately, so building a
// walker costs one remote call even if it is never advanced. A walker cannot
// be restarted; build a new one to traverse again.
//
//	w, err := flickr.NewWalker(ctx, func(ctx context.Context, page int) (*flickr.List[*flickr.Photo], error) {
//		return client.SearchPhotos(ctx, flickr.Params{"tags": "animals", "page": page})
//	})
//	for w.Next(ctx) {
//		fmt.Println(w.Item().Title)
//	}
//	if err := w.Err(); err != nil { ... }
type Walker[T any] struct {
	fetch PageFunc[T]
	cur   *List[T]
	idx   int
	page  int
	item  T
	err   error
	done  bool
}

// NewWalker builds a walker over a list-producing operation.
func NewWalker[T any](ctx context.Context, fetch PageFunc[T]) (*Walker[T], error) {
	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, err
	}
	return &Walker[T]{fetch: fetch, cur: first, page: 1}, nil
}

// Len returns the declared total number of items across all pages.
func (w *Walker[T]) Len() int {
	return w.cur.Info.Total
}

// Next advances to the next item, fetching the following page when the
// current one is exhausted. It returns false at the end of the declared page
// count or on error; check Err afterwards to tell the two apart.
func (w *Walker[T]) Next(ctx context.Context) bool {
	if w.done || w.err != nil {
		return false
	}
	if w.idx == len(w.cur.Items) {
		if w.page >= w.cur.Info.Pages {
			w.done = true
			return false
		}
		w.page++
		next, err := w.fetch(ctx, w.page)
		if err != nil {
			w.err = err
			return false
		}
		w.cur = next
		w.idx = 0
		if len(w.cur.Items) == 0 {
			w.done = true
			return false
		}
	}
	w.item = w.cur.Items[w.idx]
	w.idx++
	return true
}

// Item returns the item produced by the last successful Next.
func (w *Walker[T]) Item() T {
	return w.item
}

// Err returns the error that stopped traversal, if any. Exhaustion is not an
// error.
func (w *Walker[T]) Err() error {
	return w.err
}

// All returns a single-use iterator over the remaining items.
func (w *Walker[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for w.Next(ctx) {
			if !yield(w.item) {
				return
			}
		}
	}
}

// Slice derives a [start:stop:step] view. The underlying walker has no
// random access, so the first start items are consumed and discarded before
// the view yields anything; a large start is expensive. stop <= 0 means the
// walker's declared length, step <= 0 means 1.
func (w *Walker[T]) Slice(start, stop, step int) *SlicedWalker[T] {
	if start < 0 {
		start = 0
	}
	if stop <= 0 {
		stop = w.Len()
	}
	if step <= 0 {
		step = 1
	}
	return &SlicedWalker[T]{walker: w, start: start, stop: stop, step: step}
}

// SlicedWalker yields every step-th item of its parent walker between start
// and stop. It shares the parent's cursor: interleaving the two mid-flight
// skews both.
type SlicedWalker[T any] struct {
	walker *Walker[T]
	start  int
	stop   int
	step   int

	begun bool
	total int
}

// Len returns the number of items the slice will yield at most.
func (s *SlicedWalker[T]) Len() int {
	return (s.stop - s.start) / s.step
}

// Next advances to the slice's next item, discarding skipped items from the
// parent walker.
func (s *SlicedWalker[T]) Next(ctx context.Context) bool {
	if !s.begun {
		for i := 0; i < s.start; i++ {
			if !s.walker.Next(ctx) {
				return false
			}
			s.total++
		}
		s.begun = true
	} else {
		for i := 0; i < s.step-1; i++ {
			if !s.walker.Next(ctx) {
				return false
			}
			s.total++
		}
	}
	if s.total >= s.stop {
		return false
	}
	s.total++
	return s.walker.Next(ctx)
}

// Item returns the item produced by the last successful Next.
func (s *SlicedWalker[T]) Item() T {
	return s.walker.Item()
}

// Err returns the error that stopped the parent walker, if any.
func (s *SlicedWalker[T]) Err() error {
	return s.walker.Err()
}
