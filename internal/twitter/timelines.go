// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/pkg/types"
)

// HomeTimeline reads the home feed: the chronological "Following" tab
// when following is true, otherwise "For you".
func (c *Client) HomeTimeline(ctx context.Context, following bool, count int, cursor string) (types.TweetPage, error) {
	op := queryid.OpHomeTimeline
	if following {
		op = queryid.OpHomeLatest
	}
	return c.timeline(ctx, op, count, cursor, map[string]any{
		"includePromotedContent": false,
		"latestControlAvailable": true,
		"requestContext":         "launch",
	})
}

// Bookmarks reads the authenticated user's bookmarks.
func (c *Client) Bookmarks(ctx context.Context, count int, cursor string) (types.TweetPage, error) {
	return c.timeline(ctx, queryid.OpBookmarks, count, cursor, map[string]any{
		"includePromotedContent": false,
	})
}

// Likes reads the tweets user liked. An empty user means the
// authenticated user.
func (c *Client) Likes(ctx context.Context, user string, count int, cursor string) (types.TweetPage, error) {
	id, err := c.resolveUserID(ctx, user)
	if err != nil {
		return types.TweetPage{}, err
	}
	return c.timeline(ctx, queryid.OpLikes, count, cursor, map[string]any{
		"userId":                 id,
		"includePromotedContent": false,
		"withClientEventToken":   false,
		"withBirdwatchNotes":     false,
		"withVoice":              true,
	})
}

// UserTweets reads user's own tweets (id or handle).
func (c *Client) UserTweets(ctx context.Context, user string, count int, cursor string) (types.TweetPage, error) {
	id, err := c.resolveUserID(ctx, user)
	if err != nil {
		return types.TweetPage{}, err
	}
	return c.timeline(ctx, queryid.OpUserTweets, count, cursor, map[string]any{
		"userId":                                 id,
		"includePromotedContent":                 false,
		"withQuickPromoteEligibilityTweetFields": false,
		"withVoice":                              true,
	})
}

func (c *Client) timeline(ctx context.Context, op string, count int, cursor string, base map[string]any) (types.TweetPage, error) {
	fetch := func(ctx context.Context, cursor string, n int) (gjson.Result, error) {
		vars := make(map[string]any, len(base)+2)
		for k, v := range base {
			vars[k] = v
		}
		vars["count"] = n
		if cursor != "" {
			vars["cursor"] = cursor
		}
		return c.graphql(ctx, query{
			op:        op,
			method:    http.MethodGet,
			policy:    httputil.PolicyTimeline,
			variables: vars,
			features:  readFeatures,
		})
	}
	return c.paginate(ctx, op, count, cursor, fetch)
}
