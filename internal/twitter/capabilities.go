// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"

	"github.com/pdiddy/chirp/pkg/types"
)

// Poster creates tweets.
type Poster interface {
	Post(ctx context.Context, p PostParams) (types.PostResult, error)
	Tweet(ctx context.Context, text string, mediaIDs ...string) (types.PostResult, error)
	Reply(ctx context.Context, replyTo, text string, mediaIDs ...string) (types.PostResult, error)
}

// MediaUploader uploads attachments for later posts.
type MediaUploader interface {
	UploadMedia(ctx context.Context, data []byte, opts MediaOptions) (UploadedMedia, error)
	UploadFile(ctx context.Context, path string, opts MediaOptions) (UploadedMedia, error)
}

// Searcher runs tweet searches.
type Searcher interface {
	Search(ctx context.Context, q string, opts SearchOptions) (types.TweetPage, error)
	Mentions(ctx context.Context, count int) (types.TweetPage, error)
}

// TimelineReader reads cursor-paginated feeds.
type TimelineReader interface {
	HomeTimeline(ctx context.Context, following bool, count int, cursor string) (types.TweetPage, error)
	Bookmarks(ctx context.Context, count int, cursor string) (types.TweetPage, error)
	Likes(ctx context.Context, user string, count int, cursor string) (types.TweetPage, error)
	UserTweets(ctx context.Context, user string, count int, cursor string) (types.TweetPage, error)
}

// TweetReader reads single tweets and their conversations.
type TweetReader interface {
	GetTweet(ctx context.Context, idOrURL string) (types.TweetRecord, error)
	TweetDetail(ctx context.Context, idOrURL string) (types.TweetDetail, error)
	Thread(ctx context.Context, idOrURL string) ([]types.TweetRecord, error)
	Replies(ctx context.Context, idOrURL string) ([]types.TweetRecord, error)
}

// UserReader looks up accounts.
type UserReader interface {
	UserID(ctx context.Context) (string, error)
	Whoami(ctx context.Context) (types.UserRecord, error)
	UserByScreenName(ctx context.Context, handle string) (types.UserRecord, error)
	Followers(ctx context.Context, user string, count int, cursor string) (types.UserPage, error)
	Following(ctx context.Context, user string, count int, cursor string) (types.UserPage, error)
}

var (
	_ Poster         = (*Client)(nil)
	_ MediaUploader  = (*Client)(nil)
	_ Searcher       = (*Client)(nil)
	_ TimelineReader = (*Client)(nil)
	_ TweetReader    = (*Client)(nil)
	_ UserReader     = (*Client)(nil)
)
