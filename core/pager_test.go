package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func threeLinkedPages() (PageResult[string], FetchPageFunc[string]) {
	first := PageResult[string]{Items: []string{"a", "b"}, Next: "cursor_2"}
	pages := map[string]PageResult[string]{
		"cursor_2": {Items: []string{"c"}, Next: "cursor_3"},
		"cursor_3": {Items: []string{"d", "e"}},
	}
	fetch := func(_ context.Context, pageURL string) (PageResult[string], error) {
		page, ok := pages[pageURL]
		if !ok {
			return PageResult[string]{}, fmt.Errorf("no page behind %q", pageURL)
		}
		return page, nil
	}
	return first, fetch
}

func TestPageWalkerExhaustsLinkedPages(t *testing.T) {
	first, fetch := threeLinkedPages()
	walker := NewPageWalker[string](nil, WithoutPageTransactions[string]())

	var seen []string
	stats, err := walker.Walk(context.Background(), first, fetch, func(_ context.Context, item string) (ItemOutcome, error) {
		seen = append(seen, item)
		return ItemProcessed, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.Pages != 3 {
		t.Fatalf("pages: got %d, want 3", stats.Pages)
	}
	if stats.Processed != 5 {
		t.Fatalf("processed: got %d, want 5", stats.Processed)
	}
	if got := fmt.Sprint(seen); got != "[a b c d e]" {
		t.Fatalf("order: %s", got)
	}
}

func TestPageWalkerStopsWithoutCursor(t *testing.T) {
	walker := NewPageWalker[string](nil, WithoutPageTransactions[string]())
	stats, err := walker.Walk(context.Background(), PageResult[string]{Items: []string{"only"}}, nil, func(context.Context, string) (ItemOutcome, error) {
		return ItemProcessed, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.Pages != 1 || stats.Processed != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestPageWalkerMaxPagesGuard(t *testing.T) {
	// Every page points at itself: without the cap this never terminates.
	endless := func(_ context.Context, pageURL string) (PageResult[string], error) {
		return PageResult[string]{Items: []string{"x"}, Next: pageURL}, nil
	}
	walker := NewPageWalker(nil, WithMaxPages[string](5), WithoutPageTransactions[string]())

	_, err := walker.Walk(context.Background(), PageResult[string]{Items: []string{"x"}, Next: "loop"}, endless, func(context.Context, string) (ItemOutcome, error) {
		return ItemProcessed, nil
	})
	if !errors.Is(err, ErrPageLimit) {
		t.Fatalf("expected ErrPageLimit, got %v", err)
	}
}

func TestPageWalkerPageIsOneTransaction(t *testing.T) {
	first, fetch := threeLinkedPages()
	tx := &recordingTxRunner{}
	walker := NewPageWalker[string](tx)

	boom := errors.New("boom")
	var attempted []string
	_, err := walker.Walk(context.Background(), first, fetch, func(_ context.Context, item string) (ItemOutcome, error) {
		attempted = append(attempted, item)
		if item == "c" {
			return ItemProcessed, boom
		}
		return ItemProcessed, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected action error, got %v", err)
	}

	// First page committed, second page rolled back, third never fetched.
	if tx.committed != 1 {
		t.Fatalf("committed pages: got %d, want 1", tx.committed)
	}
	if tx.rolledacc != 1 {
		t.Fatalf("rolled back pages: got %d, want 1", tx.rolledacc)
	}
	if got := fmt.Sprint(attempted); got != "[a b c]" {
		t.Fatalf("attempted: %s", got)
	}
}

func TestPageWalkerSkipCounting(t *testing.T) {
	walker := NewPageWalker[string](nil, WithoutPageTransactions[string]())
	stats, err := walker.Walk(context.Background(), PageResult[string]{Items: []string{"a", "b", "c"}}, nil, func(_ context.Context, item string) (ItemOutcome, error) {
		if item == "b" {
			return ItemSkipped, nil
		}
		return ItemProcessed, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.Processed != 2 || stats.Skipped != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}
