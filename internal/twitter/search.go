// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/internal/extract"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/pkg/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxPages stops pagination that keeps returning a cursor without
	// new tweets.
	maxPages = 50
)

// SearchProduct selects the search tab.
type SearchProduct string

const (
	SearchLatest SearchProduct = "Latest"
	SearchTop    SearchProduct = "Top"
	SearchMedia  SearchProduct = "Media"
)

// SearchOptions tunes Search.
type SearchOptions struct {
	// Count is the number of tweets wanted across all pages. The last page
	// is returned whole, so more may come back.
	Count   int
	Product SearchProduct
	Cursor  string
}

func pageSize(n int) int {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	}
	return n
}

// Search runs a query and pages until Count tweets are collected or the
// results run out.
func (c *Client) Search(ctx context.Context, q string, opts SearchOptions) (types.TweetPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return types.TweetPage{}, fmt.Errorf("search: empty query")
	}
	product := opts.Product
	if product == "" {
		product = SearchLatest
	}
	fetch := func(ctx context.Context, cursor string, count int) (gjson.Result, error) {
		vars := map[string]any{
			"rawQuery":    q,
			"count":       count,
			"querySource": "typed_query",
			"product":     string(product),
		}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		return c.graphql(ctx, query{
			op:        queryid.OpSearchTimeline,
			method:    http.MethodGet,
			policy:    httputil.PolicySearch,
			variables: vars,
			features:  readFeatures,
		})
	}
	return c.paginate(ctx, queryid.OpSearchTimeline, opts.Count, opts.Cursor, fetch)
}

// Mentions returns recent tweets mentioning the authenticated user.
func (c *Client) Mentions(ctx context.Context, count int) (types.TweetPage, error) {
	me, err := c.Whoami(ctx)
	if err != nil {
		return types.TweetPage{}, err
	}
	return c.Search(ctx, "@"+me.Username, SearchOptions{Count: count, Product: SearchLatest})
}

type pageFetcher func(ctx context.Context, cursor string, count int) (gjson.Result, error)

// paginate collects tweets across pages. It stops at want tweets, an empty
// or repeated cursor, a page without new tweets, or maxPages. Pages are kept
// whole, so the result can exceed want, and NextCursor always resumes right
// after the last tweet returned.
func (c *Client) paginate(ctx context.Context, name string, want int, cursor string, fetch pageFetcher) (types.TweetPage, error) {
	if want <= 0 {
		want = defaultPageSize
	}
	var page types.TweetPage
	seen := make(map[string]bool)

	for i := 0; i < maxPages && len(page.Tweets) < want; i++ {
		body, err := fetch(ctx, cursor, pageSize(want-len(page.Tweets)))
		if err != nil {
			if len(page.Tweets) > 0 {
				c.log.Warn("paginate", "page_failed", logging.Fields{"operation": name, "page": i + 1, "error": err.Error()})
				return page, nil
			}
			return types.TweetPage{}, err
		}
		ins := extract.Instructions(body)
		added := 0
		for _, t := range extract.Tweets(ins, c.quoteDepth) {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			page.Tweets = append(page.Tweets, t)
			added++
		}
		next := extract.BottomCursor(ins)
		page.NextCursor = next
		if added == 0 || next == "" || next == cursor {
			break
		}
		cursor = next
	}
	return page, nil
}
