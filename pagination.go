package bsale

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxPageSize is the largest page Bsale serves.
	MaxPageSize = 50
	// listAllConcurrency bounds in-flight page requests in ListAll.
	listAllConcurrency = 4
	// maxListAllCount caps the total a server may report to ListAll.
	maxListAllCount = 1_000_000
)

// PageFetcher fetches the page starting at offset with the given limit.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) (*Page[T], error)

// ListAll walks a collection. The first page reports the total count; the
// remaining pages are then fetched concurrently and reassembled in offset
// order.
//
// A reported count that is negative or above one million items fails with a
// base *Error before any further page is requested.
//
// The walk is not a snapshot: if the collection changes while pages are
// being fetched, items may be skipped or repeated.
func ListAll[T any](ctx context.Context, fetch PageFetcher[T]) ([]T, error) {
	first, err := fetch(ctx, MaxPageSize, 0)
	if err != nil {
		return nil, err
	}

	if first.Count < 0 || first.Count > maxListAllCount {
		return nil, NewError("Invalid page count", errors.Newf("server reported %d items", first.Count))
	}

	if len(first.Items) == 0 || first.Count <= len(first.Items) {
		return first.Items, nil
	}

	limit := MaxPageSize
	if first.Limit > 0 && first.Limit < limit {
		limit = first.Limit
	}

	var offsets []int
	for offset := len(first.Items); offset < first.Count; offset += limit {
		offsets = append(offsets, offset)
	}

	pages := make([][]T, len(offsets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listAllConcurrency)

	for i, offset := range offsets {
		g.Go(func() error {
			page, err := fetch(gctx, limit, offset)
			if err != nil {
				return err
			}
			pages[i] = page.Items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := append([]T(nil), first.Items...)
	for _, page := range pages {
		items = append(items, page...)
	}

	return items, nil
}
