// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/chirp/internal/credentials"
	"github.com/pdiddy/chirp/internal/extract"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/pkg/types"
)

// userIDFromCookie reads the numeric id from the twid cookie
// ("u%3D<id>" or "u=<id>").
func userIDFromCookie(header string) string {
	twid := credentials.ParseCookieHeader(header)["twid"]
	if twid == "" {
		return ""
	}
	if dec, err := url.QueryUnescape(twid); err == nil {
		twid = dec
	}
	id := strings.TrimPrefix(twid, "u=")
	if !isNumeric(id) {
		return ""
	}
	return id
}

func (c *Client) cachedUserID() string {
	c.userMu.Lock()
	defer c.userMu.Unlock()
	return c.userID
}

// UserID returns the authenticated user's numeric id, resolving it once
// per client from the twid cookie or verify_credentials. Concurrent first
// calls may both resolve; the result is the same.
func (c *Client) UserID(ctx context.Context) (string, error) {
	if id := c.cachedUserID(); id != "" {
		return id, nil
	}
	me, err := c.Whoami(ctx)
	if err != nil {
		return "", err
	}
	return me.ID, nil
}

// Whoami returns the authenticated user's profile.
func (c *Client) Whoami(ctx context.Context) (types.UserRecord, error) {
	policy := c.retries.PolicyFor(httputil.PolicyUserLookup)
	u, err := httputil.Retry(ctx, c.log, policy, "verify_credentials", func(ctx context.Context) (types.UserRecord, error) {
		resp, err := c.do(ctx, request{
			name:   "verify_credentials",
			method: http.MethodGet,
			url:    apiBase + "/1.1/account/verify_credentials.json?include_entities=false&skip_status=true",
		})
		if err != nil {
			return types.UserRecord{}, retryable(err)
		}
		u, ok := extract.RESTUser(resp.JSON())
		if !ok || u.ID == "" {
			return types.UserRecord{}, httputil.Permanent(fmt.Errorf("verify_credentials: %w", ErrNotFound))
		}
		return u, nil
	})
	if err != nil {
		return types.UserRecord{}, err
	}

	c.userMu.Lock()
	if c.userID == "" {
		c.userID = u.ID
	}
	c.userMu.Unlock()
	return u, nil
}

// UserByScreenName looks up a profile by handle, with or without "@".
func (c *Client) UserByScreenName(ctx context.Context, handle string) (types.UserRecord, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return types.UserRecord{}, fmt.Errorf("user lookup: empty handle")
	}
	body, err := c.graphql(ctx, query{
		op:     queryid.OpUserByScreenName,
		method: http.MethodGet,
		policy: httputil.PolicyUserLookup,
		variables: map[string]any{
			"screen_name":              handle,
			"withSafetyModeUserFields": true,
		},
		features:     userFeatures,
		fieldToggles: map[string]bool{"withAuxiliaryUserLabels": false},
	})
	if err != nil {
		return types.UserRecord{}, err
	}
	u, ok := extract.User(body.Get("data.user.result"))
	if !ok {
		return types.UserRecord{}, fmt.Errorf("user @%s: %w", handle, ErrNotFound)
	}
	return u, nil
}

// resolveUserID accepts a numeric id or a handle.
func (c *Client) resolveUserID(ctx context.Context, user string) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return c.UserID(ctx)
	}
	if isNumeric(user) {
		return user, nil
	}
	u, err := c.UserByScreenName(ctx, user)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Followers lists accounts following user (id or handle; empty means the
// authenticated user).
func (c *Client) Followers(ctx context.Context, user string, count int, cursor string) (types.UserPage, error) {
	return c.userList(ctx, queryid.OpFollowers, user, count, cursor)
}

// Following lists accounts user follows.
func (c *Client) Following(ctx context.Context, user string, count int, cursor string) (types.UserPage, error) {
	return c.userList(ctx, queryid.OpFollowing, user, count, cursor)
}

func (c *Client) userList(ctx context.Context, op, user string, count int, cursor string) (types.UserPage, error) {
	id, err := c.resolveUserID(ctx, user)
	if err != nil {
		return types.UserPage{}, err
	}
	vars := map[string]any{
		"userId":                 id,
		"count":                  pageSize(count),
		"includePromotedContent": false,
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	body, err := c.graphql(ctx, query{
		op:        op,
		method:    http.MethodGet,
		policy:    httputil.PolicyTimeline,
		variables: vars,
		features:  readFeatures,
	})
	if err != nil {
		return types.UserPage{}, err
	}
	ins := extract.Instructions(body)
	return types.UserPage{Users: extract.Users(ins), NextCursor: extract.BottomCursor(ins)}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
