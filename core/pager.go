package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrPageLimit reports that a paginated walk followed more cursors than the
// configured cap allows. The cap guards against a platform response that
// never stops producing next cursors.
var ErrPageLimit = errors.New("core: pagination page limit exceeded")

const DefaultMaxPages = 1000

// ItemOutcome reports what a walk action did with one item.
type ItemOutcome int

const (
	ItemProcessed ItemOutcome = iota
	ItemSkipped
)

// ItemAction handles one item of a page. Returning an error aborts the
// page's transaction; returning ItemSkipped counts the item without
// processing it.
type ItemAction[T any] func(ctx context.Context, item T) (ItemOutcome, error)

// WalkStats summarizes one paginated walk.
type WalkStats struct {
	Pages     int
	Processed int
	Skipped   int
}

// PageWalker iterates a cursor-paginated response, applying an action to
// every item. Each page runs inside one transaction: all of a page's items
// succeed together or the page rolls back as a unit, including any records
// the action created along the way.
type PageWalker[T any] struct {
	tx       TransactionRunner
	maxPages int
}

type PageWalkerOption[T any] func(*PageWalker[T])

// WithMaxPages bounds the number of pages a single walk may fetch.
func WithMaxPages[T any](limit int) PageWalkerOption[T] {
	return func(w *PageWalker[T]) {
		if limit > 0 {
			w.maxPages = limit
		}
	}
}

// WithoutPageTransactions disables the per-page transactional boundary. Form
// discovery uses this: form rows are independent and a partial page is
// harmless there.
func WithoutPageTransactions[T any]() PageWalkerOption[T] {
	return func(w *PageWalker[T]) {
		w.tx = nil
	}
}

func NewPageWalker[T any](tx TransactionRunner, opts ...PageWalkerOption[T]) *PageWalker[T] {
	walker := &PageWalker[T]{
		tx:       tx,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(walker)
		}
	}
	return walker
}

// Walk processes first and every page reachable through its next cursors,
// stopping when a page carries no cursor. A failed page aborts the walk; the
// remaining items of that page are not attempted.
func (w *PageWalker[T]) Walk(
	ctx context.Context,
	first PageResult[T],
	fetchNext FetchPageFunc[T],
	action ItemAction[T],
) (WalkStats, error) {
	if w == nil {
		return WalkStats{}, fmt.Errorf("core: page walker is required")
	}
	if action == nil {
		return WalkStats{}, fmt.Errorf("core: page walker action is required")
	}

	stats := WalkStats{}
	page := first
	for {
		stats.Pages++
		if stats.Pages > w.maxPages {
			return stats, fmt.Errorf("%w: %d pages", ErrPageLimit, w.maxPages)
		}
		if err := w.processPage(ctx, page, action, &stats); err != nil {
			return stats, err
		}

		if page.Next == "" {
			return stats, nil
		}
		if fetchNext == nil {
			return stats, fmt.Errorf("core: page walker fetch func is required to follow cursors")
		}
		next, err := fetchNext(ctx, page.Next)
		if err != nil {
			return stats, err
		}
		page = next
	}
}

func (w *PageWalker[T]) processPage(
	ctx context.Context,
	page PageResult[T],
	action ItemAction[T],
	stats *WalkStats,
) error {
	if len(page.Items) == 0 {
		return nil
	}
	apply := func(ctx context.Context) error {
		for _, item := range page.Items {
			outcome, err := action(ctx, item)
			if err != nil {
				return err
			}
			switch outcome {
			case ItemSkipped:
				stats.Skipped++
			default:
				stats.Processed++
			}
		}
		return nil
	}

	if w.tx == nil {
		return apply(ctx)
	}
	return w.tx.RunInTx(ctx, apply)
}
