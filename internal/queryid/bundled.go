// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queryid

import (
	"context"
	"strings"
)

// Operation names used by the client.
const (
	OpCreateTweet      = "CreateTweet"
	OpTweetDetail      = "TweetDetail"
	OpTweetResultByID  = "TweetResultByRestId"
	OpSearchTimeline   = "SearchTimeline"
	OpUserByScreenName = "UserByScreenName"
	OpUserTweets       = "UserTweets"
	OpHomeTimeline     = "HomeTimeline"
	OpHomeLatest       = "HomeLatestTimeline"
	OpBookmarks        = "Bookmarks"
	OpLikes            = "Likes"
	OpFollowers        = "Followers"
	OpFollowing        = "Following"
)

// bundled holds the last known identifiers. They go stale; the resolver
// replaces them from the live bundles on the first 404.
var bundled = map[string]string{
	OpCreateTweet:      "TAJw1rBsjAtdNgTdlo2oeg",
	OpTweetDetail:      "97JF30KziU00483E_8elBA",
	OpTweetResultByID:  "aFvUsJm2c-oDkJV75blV6g",
	OpSearchTimeline:   "M1jEez78PEfVfbQLvlWMvQ",
	OpUserByScreenName: "xc8f1g7BYqr6VTzTbvNlGw",
	OpUserTweets:       "Y9WM4Id6UcGFE8Z-hbnixw",
	OpHomeTimeline:     "HJFjzBgCs16TqxewQOeLNg",
	OpHomeLatest:       "DiTkXJgLqBBxCs7zaYsbtA",
	OpBookmarks:        "RV1g3b8n_SGOHwkqKYSCFw",
	OpLikes:            "aeJWz--kknVBOl7wQ7gh7Q",
	OpFollowers:        "IOh4aS6UdGWGJUYTqliQ7Q",
	OpFollowing:        "zx6e-TLzRkeDO_a7p4b3JQ",
}

// Bundled returns a Source serving the built-in identifiers with
// overrides layered on top.
func Bundled(overrides map[string]string) Source {
	return SourceFunc(func(ctx context.Context) (map[string]string, error) {
		out := make(map[string]string, len(bundled)+len(overrides))
		for k, v := range bundled {
			out[k] = v
		}
		for k, v := range overrides {
			if v != "" {
				out[k] = v
			}
		}
		return out, nil
	})
}

// Canonical returns the operation name matching name case-insensitively.
// Config loaders lowercase map keys, so overrides are mapped back here.
func Canonical(name string) (string, bool) {
	for op := range bundled {
		if strings.EqualFold(op, name) {
			return op, true
		}
	}
	return "", false
}
