package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/safar/storefront/internal/models"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
	StatusFatal    Status = "fatal"
)

// Result separates live data from defaults so callers can tell them apart.
type Result[T any] struct {
	Items  []T
	Status Status
	Reason error
}

func (r Result[T]) Fallback() bool {
	return r.Status == StatusFallback
}

type Fetcher[T any] func(ctx context.Context) ([]T, error)

// FetchOptions controls how an accessor degrades.
type FetchOptions[T any] struct {
	Fallback []T
	// EmptyIsFallback treats a successful empty read as missing data.
	EmptyIsFallback bool
}

var ErrNoRows = errors.New("no rows")

// Fetch runs fetch and degrades to opts.Fallback on failure. A cancelled or
// expired context is reported as fatal since the caller has gone away.
func Fetch[T any](ctx context.Context, fetch Fetcher[T], opts FetchOptions[T]) Result[T] {
	items, err := fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result[T]{Items: []T{}, Status: StatusFatal, Reason: fmt.Errorf("fetch: %w", ctxErr)}
		}
		return Result[T]{Items: fallbackCopy(opts.Fallback), Status: StatusFallback, Reason: err}
	}
	if len(items) == 0 && opts.EmptyIsFallback {
		return Result[T]{Items: fallbackCopy(opts.Fallback), Status: StatusFallback, Reason: ErrNoRows}
	}
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Status: StatusOK}
}

func fallbackCopy[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// FAQs returns active FAQs, or the built-in defaults when none can be read.
func FAQs(ctx context.Context, fetch Fetcher[models.FAQ]) Result[models.FAQ] {
	return Fetch(ctx, fetch, FetchOptions[models.FAQ]{Fallback: DefaultFAQs(), EmptyIsFallback: true})
}

func PaymentMethods(ctx context.Context, fetch Fetcher[models.PaymentMethod]) Result[models.PaymentMethod] {
	return Fetch(ctx, fetch, FetchOptions[models.PaymentMethod]{})
}

func Categories(ctx context.Context, fetch Fetcher[models.Category]) Result[models.Category] {
	return Fetch(ctx, fetch, FetchOptions[models.Category]{})
}

// FAQCategories lists the distinct categories of faqs in first-seen order.
func FAQCategories(faqs []models.FAQ) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range faqs {
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		out = append(out, f.Category)
	}
	return out
}
