// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/chirp/internal/extract"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/pkg/types"
)

// TweetIDFromURL accepts a bare id or a status URL and returns the id.
func TweetIDFromURL(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "/status/"); i >= 0 {
		s = s[i+len("/status/"):]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// GetTweet fetches a single tweet by id or URL.
func (c *Client) GetTweet(ctx context.Context, idOrURL string) (types.TweetRecord, error) {
	id := TweetIDFromURL(idOrURL)
	if !isNumeric(id) {
		return types.TweetRecord{}, fmt.Errorf("invalid tweet id %q", idOrURL)
	}
	body, err := c.graphql(ctx, query{
		op:     queryid.OpTweetResultByID,
		method: http.MethodGet,
		policy: httputil.PolicyTweetDetail,
		variables: map[string]any{
			"tweetId":                id,
			"withCommunity":          false,
			"includePromotedContent": false,
			"withVoice":              false,
		},
		features:     readFeatures,
		fieldToggles: tweetFieldToggles,
	})
	if err != nil {
		return types.TweetRecord{}, err
	}
	t, ok := extract.Tweet(body.Get("data.tweetResult.result"), c.quoteDepth)
	if !ok {
		return types.TweetRecord{}, fmt.Errorf("tweet %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// TweetDetail fetches a tweet with its conversation and splits the
// conversation into the focal author's thread and everyone else's replies.
func (c *Client) TweetDetail(ctx context.Context, idOrURL string) (types.TweetDetail, error) {
	id := TweetIDFromURL(idOrURL)
	if !isNumeric(id) {
		return types.TweetDetail{}, fmt.Errorf("invalid tweet id %q", idOrURL)
	}
	body, err := c.graphql(ctx, query{
		op:     queryid.OpTweetDetail,
		method: http.MethodGet,
		policy: httputil.PolicyTweetDetail,
		variables: map[string]any{
			"focalTweetId":                           id,
			"with_rux_injections":                    false,
			"rankingMode":                            "Relevance",
			"includePromotedContent":                 false,
			"withCommunity":                          true,
			"withQuickPromoteEligibilityTweetFields": false,
			"withBirdwatchNotes":                     true,
			"withVoice":                              true,
		},
		features:     readFeatures,
		fieldToggles: tweetFieldToggles,
	})
	if err != nil {
		return types.TweetDetail{}, err
	}
	tweets := extract.Tweets(extract.Instructions(body), c.quoteDepth)
	return splitConversation(id, tweets)
}

// Thread returns the focal author's chain around the tweet.
func (c *Client) Thread(ctx context.Context, idOrURL string) ([]types.TweetRecord, error) {
	d, err := c.TweetDetail(ctx, idOrURL)
	if err != nil {
		return nil, err
	}
	return d.Thread, nil
}

// Replies returns the conversation's tweets by other authors.
func (c *Client) Replies(ctx context.Context, idOrURL string) ([]types.TweetRecord, error) {
	d, err := c.TweetDetail(ctx, idOrURL)
	if err != nil {
		return nil, err
	}
	return d.Replies, nil
}

func splitConversation(focalID string, tweets []types.TweetRecord) (types.TweetDetail, error) {
	var d types.TweetDetail
	found := false
	for _, t := range tweets {
		if t.ID == focalID {
			d.Tweet = t
			found = true
			break
		}
	}
	if !found {
		return types.TweetDetail{}, fmt.Errorf("tweet %s: %w", focalID, ErrNotFound)
	}

	sameAuthor := func(t types.TweetRecord) bool {
		if d.Tweet.AuthorID != "" && t.AuthorID != "" {
			return t.AuthorID == d.Tweet.AuthorID
		}
		return t.Author.Username != "" && t.Author.Username == d.Tweet.Author.Username
	}
	for _, t := range tweets {
		inConversation := d.Tweet.ConversationID == "" || t.ConversationID == d.Tweet.ConversationID
		if sameAuthor(t) && inConversation {
			d.Thread = append(d.Thread, t)
		} else {
			d.Replies = append(d.Replies, t)
		}
	}
	return d, nil
}
