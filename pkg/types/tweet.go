// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// createdAtLayout is the timestamp format the upstream legacy shapes use,
// e.g. "Wed Oct 10 20:19:24 +0000 2018".
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Author identifies who wrote a tweet.
type Author struct {
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name" yaml:"name"`
}

// MediaKind classifies a media attachment.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
	MediaGIF   MediaKind = "animated_gif"
)

// Media is one attachment on a tweet.
type Media struct {
	Kind MediaKind `json:"type" yaml:"type"`

	// URL is the direct media URL (photo) or the best video variant.
	URL string `json:"url" yaml:"url"`

	// PreviewURL is the thumbnail for videos and gifs.
	PreviewURL string `json:"preview_url,omitempty" yaml:"preview_url,omitempty"`

	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// TweetRecord is the flat, stable view of a tweet extracted from a GraphQL
// tweet result.
type TweetRecord struct {
	// ID is the tweet rest id.
	ID string `json:"id" yaml:"id"`

	// Text is resolved from exactly one of the legacy, note or article
	// shapes. It is empty when no shape resolves.
	Text string `json:"text" yaml:"text"`

	// ArticleTitle is set only for article tweets that carry a title.
	ArticleTitle string `json:"article_title,omitempty" yaml:"article_title,omitempty"`

	Author   Author `json:"author" yaml:"author"`
	AuthorID string `json:"author_id,omitempty" yaml:"author_id,omitempty"`

	// CreatedAt is the upstream timestamp string, kept verbatim.
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// Engagement counters are nil when the payload does not carry them.
	ReplyCount   *int `json:"reply_count,omitempty" yaml:"reply_count,omitempty"`
	RetweetCount *int `json:"retweet_count,omitempty" yaml:"retweet_count,omitempty"`
	LikeCount    *int `json:"like_count,omitempty" yaml:"like_count,omitempty"`

	ConversationID    string `json:"conversation_id,omitempty" yaml:"conversation_id,omitempty"`
	InReplyToStatusID string `json:"in_reply_to_status_id,omitempty" yaml:"in_reply_to_status_id,omitempty"`

	// QuotedTweet is nil when the tweet quotes nothing or the quote depth
	// is exhausted.
	QuotedTweet *TweetRecord `json:"quoted_tweet,omitempty" yaml:"quoted_tweet,omitempty"`

	Media []Media `json:"media,omitempty" yaml:"media,omitempty"`
}

// Time parses CreatedAt. The second return is false when CreatedAt is
// empty or not in the upstream format.
func (t TweetRecord) Time() (time.Time, bool) {
	if t.CreatedAt == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(createdAtLayout, t.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// URL returns the canonical web link for the tweet.
func (t TweetRecord) URL() string {
	user := t.Author.Username
	if user == "" {
		user = "i"
	}
	return "https://x.com/" + user + "/status/" + t.ID
}

// TweetPage is one page of a cursor-paginated timeline.
type TweetPage struct {
	Tweets     []TweetRecord `json:"tweets" yaml:"tweets"`
	NextCursor string        `json:"next_cursor,omitempty" yaml:"next_cursor,omitempty"`
}

// TweetDetail groups a focal tweet with its surrounding conversation.
type TweetDetail struct {
	Tweet TweetRecord `json:"tweet" yaml:"tweet"`

	// Thread holds the focal author's own chain in the conversation, in
	// timeline order, including the focal tweet.
	Thread []TweetRecord `json:"thread,omitempty" yaml:"thread,omitempty"`

	// Replies holds every other tweet in the conversation.
	Replies []TweetRecord `json:"replies,omitempty" yaml:"replies,omitempty"`
}
