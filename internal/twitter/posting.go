// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/chirp/internal/extract"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/pkg/types"
)

// codePostingUnavailable is the application error the GraphQL create path
// returns when it refuses the account or tweet shape; the legacy endpoint
// still accepts the same post.
const codePostingUnavailable = 226

// Fallback tiers, used as metric labels.
const (
	tierRefresh = "refresh"
	tierGeneric = "generic"
	tierLegacy  = "legacy"
)

// PostParams describes a tweet to create.
type PostParams struct {
	Text string

	// MediaIDs come from UploadMedia.
	MediaIDs []string

	// AttachmentURL quotes another tweet by URL.
	AttachmentURL string

	// ReplyTo is the id of the tweet being answered.
	ReplyTo string
}

// Tweet posts text as a new tweet.
func (c *Client) Tweet(ctx context.Context, text string, mediaIDs ...string) (types.PostResult, error) {
	return c.Post(ctx, PostParams{Text: text, MediaIDs: mediaIDs})
}

// Reply posts text as a reply to the tweet with id replyTo.
func (c *Client) Reply(ctx context.Context, replyTo, text string, mediaIDs ...string) (types.PostResult, error) {
	return c.Post(ctx, PostParams{Text: text, MediaIDs: mediaIDs, ReplyTo: replyTo})
}

// Post creates a tweet. It walks the posting tiers in order: the resolved
// CreateTweet endpoint, the same endpoint after a query id refresh, the
// generic GraphQL endpoint, and the legacy status update form. The legacy
// form is used only for error code 226 or when every GraphQL tier returned
// 404. A failure carries every error observed along the way.
//
// Tiers may repeat an upstream write whose earlier response was lost.
func (c *Client) Post(ctx context.Context, p PostParams) (types.PostResult, error) {
	if strings.TrimSpace(p.Text) == "" && len(p.MediaIDs) == 0 {
		return types.PostResult{}, ErrEmptyTweet
	}

	// The user id header accompanies writes; failure to resolve it is not
	// fatal to the post.
	if _, err := c.UserID(ctx); err != nil {
		c.log.Warn("post", "user_id_unresolved", logging.Fields{"error": err.Error()})
	}

	var failures []string
	fail := func(tier string, err error) {
		failures = append(failures, err.Error())
		c.log.Warn("post", "tier_failed", logging.Fields{"tier": tier, "error": err.Error()})
	}
	variables := createTweetVariables(p)

	id, err := c.resolver.ID(ctx, queryid.OpCreateTweet)
	if err != nil {
		return types.PostResult{}, fmt.Errorf("resolving %s: %w", queryid.OpCreateTweet, err)
	}
	endpoint := fmt.Sprintf("%s/graphql/%s/%s", apiBase, id, queryid.OpCreateTweet)

	tweetID, err := c.createTweet(ctx, "primary", endpoint, id, variables)
	if IsStatus(err, http.StatusNotFound) {
		fail("primary", err)
		c.metrics.Fallbacks.WithLabelValues(tierRefresh).Inc()
		fresh, rerr := c.refreshQueryID(ctx, queryid.OpCreateTweet)
		if rerr != nil {
			fail(tierRefresh, fmt.Errorf("query id refresh: %w", rerr))
			fresh = id
		}
		endpoint = fmt.Sprintf("%s/graphql/%s/%s", apiBase, fresh, queryid.OpCreateTweet)
		id = fresh
		tweetID, err = c.createTweet(ctx, tierRefresh, endpoint, id, variables)
	}
	if IsStatus(err, http.StatusNotFound) {
		fail(tierRefresh, err)
		c.metrics.Fallbacks.WithLabelValues(tierGeneric).Inc()
		tweetID, err = c.createTweet(ctx, tierGeneric, apiBase+"/graphql", id, variables)
	}

	legacy := false
	var apiErr *APIError
	switch {
	case err == nil:
		return c.postResult(tweetID)
	case errors.Is(err, ErrNoTweetID):
		return types.PostResult{}, ErrNoTweetID
	case IsStatus(err, http.StatusNotFound):
		fail(tierGeneric, err)
		legacy = true
	case errors.As(err, &apiErr) && apiErr.HasCode(codePostingUnavailable):
		fail("graphql", err)
		legacy = true
	default:
		fail("graphql", err)
	}
	if !legacy {
		return types.PostResult{}, &PostError{Failures: failures}
	}

	c.metrics.Fallbacks.WithLabelValues(tierLegacy).Inc()
	tweetID, err = c.legacyUpdate(ctx, p)
	switch {
	case err == nil:
		return c.postResult(tweetID)
	case errors.Is(err, ErrNoTweetID):
		return types.PostResult{}, ErrNoTweetID
	}
	fail(tierLegacy, err)
	return types.PostResult{}, &PostError{Failures: failures}
}

func (c *Client) postResult(id string) (types.PostResult, error) {
	res := types.PostResult{TweetID: id, URL: "https://x.com/i/status/" + id}
	c.log.Info("post", "created", logging.Fields{"tweet_id": id})
	return res, nil
}

// createTweet posts one CreateTweet payload under the post policy.
func (c *Client) createTweet(ctx context.Context, tier, endpoint, queryID string, variables map[string]any) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"variables": variables,
		"features":  createTweetFeatures,
		"queryId":   queryID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", queryid.OpCreateTweet, err)
	}
	return c.sendCreate(ctx, request{
		name:        queryid.OpCreateTweet + "/" + tier,
		method:      http.MethodPost,
		url:         endpoint,
		body:        payload,
		contentType: "application/json",
	})
}

// legacyUpdate submits the post to the v1.1 status update form.
func (c *Client) legacyUpdate(ctx context.Context, p PostParams) (string, error) {
	form := url.Values{}
	form.Set("status", p.Text)
	if p.ReplyTo != "" {
		form.Set("in_reply_to_status_id", p.ReplyTo)
		form.Set("auto_populate_reply_metadata", "true")
	}
	if len(p.MediaIDs) > 0 {
		form.Set("media_ids", strings.Join(p.MediaIDs, ","))
	}
	if p.AttachmentURL != "" {
		form.Set("attachment_url", p.AttachmentURL)
	}
	return c.sendCreate(ctx, request{
		name:        "statuses/update",
		method:      http.MethodPost,
		url:         apiBase + "/1.1/statuses/update.json",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
}

// sendCreate sends a create request and extracts the new tweet id. A
// success without an id is ErrNoTweetID and is never retried.
func (c *Client) sendCreate(ctx context.Context, req request) (string, error) {
	policy := c.retries.PolicyFor(httputil.PolicyPost)
	return httputil.Retry(ctx, c.log, policy, req.name, func(ctx context.Context) (string, error) {
		resp, err := c.do(ctx, req)
		if err != nil {
			return "", retryable(err)
		}
		body := resp.JSON()
		if errs := extract.Errors(body); len(errs) > 0 && extract.CreatedTweetID(body) == "" {
			return "", httputil.Permanent(&APIError{Errors: errs})
		}
		id := extract.CreatedTweetID(body)
		if id == "" {
			return "", httputil.Permanent(ErrNoTweetID)
		}
		return id, nil
	})
}

func createTweetVariables(p PostParams) map[string]any {
	entities := make([]map[string]any, 0, len(p.MediaIDs))
	for _, id := range p.MediaIDs {
		entities = append(entities, map[string]any{"media_id": id, "tagged_users": []string{}})
	}
	v := map[string]any{
		"tweet_text":   p.Text,
		"dark_request": false,
		"media": map[string]any{
			"media_entities":     entities,
			"possibly_sensitive": false,
		},
		"semantic_annotation_ids": []string{},
	}
	if p.AttachmentURL != "" {
		v["attachment_url"] = p.AttachmentURL
	}
	if p.ReplyTo != "" {
		v["reply"] = map[string]any{
			"in_reply_to_tweet_id":   p.ReplyTo,
			"exclude_reply_user_ids": []string{},
		}
	}
	return v
}
