// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/pkg/types"
)

const fullTweet = `{
  "__typename": "Tweet",
  "rest_id": "100",
  "core": {"user_results": {"result": {
    "rest_id": "7",
    "legacy": {"screen_name": "alice", "name": "Alice"}
  }}},
  "legacy": {
    "full_text": "hello world",
    "created_at": "Wed Oct 10 20:19:24 +0000 2018",
    "reply_count": 2,
    "retweet_count": 0,
    "favorite_count": 5,
    "conversation_id_str": "99",
    "in_reply_to_status_id_str": "99",
    "user_id_str": "7",
    "extended_entities": {"media": [
      {"type": "photo", "media_url_https": "https://pbs.twimg.com/a.jpg", "original_info": {"width": 10, "height": 20}},
      {"type": "video", "media_url_https": "https://pbs.twimg.com/thumb.jpg", "video_info": {"variants": [
        {"content_type": "application/x-mpegURL", "url": "https://video.twimg.com/pl.m3u8"},
        {"content_type": "video/mp4", "bitrate": 256000, "url": "https://video.twimg.com/low.mp4"},
        {"content_type": "video/mp4", "bitrate": 2176000, "url": "https://video.twimg.com/high.mp4"}
      ]}}
    ]}
  }
}`

func TestTweetFullRecord(t *testing.T) {
	rec, ok := Tweet(gjson.Parse(fullTweet), DefaultQuoteDepth)
	require.True(t, ok)

	assert.Equal(t, "100", rec.ID)
	assert.Equal(t, "hello world", rec.Text)
	assert.Empty(t, rec.ArticleTitle)
	assert.Equal(t, types.Author{Username: "alice", Name: "Alice"}, rec.Author)
	assert.Equal(t, "7", rec.AuthorID)
	assert.Equal(t, "99", rec.ConversationID)
	assert.Equal(t, "99", rec.InReplyToStatusID)
	require.NotNil(t, rec.ReplyCount)
	assert.Equal(t, 2, *rec.ReplyCount)
	require.NotNil(t, rec.RetweetCount)
	assert.Equal(t, 0, *rec.RetweetCount, "zero counters are present, not absent")
	require.NotNil(t, rec.LikeCount)
	assert.Equal(t, 5, *rec.LikeCount)
	assert.Nil(t, rec.QuotedTweet)

	ts, ok := rec.Time()
	require.True(t, ok)
	assert.Equal(t, 2018, ts.Year())

	require.Len(t, rec.Media, 2)
	assert.Equal(t, types.MediaPhoto, rec.Media[0].Kind)
	assert.Equal(t, 10, rec.Media[0].Width)
	assert.Equal(t, types.MediaVideo, rec.Media[1].Kind)
	assert.Equal(t, "https://video.twimg.com/high.mp4", rec.Media[1].URL)
	assert.Equal(t, "https://pbs.twimg.com/thumb.jpg", rec.Media[1].PreviewURL)
	assert.Equal(t, "https://x.com/alice/status/100", rec.URL())
}

func TestTweetMissingCountersAreAbsent(t *testing.T) {
	rec, ok := Tweet(gjson.Parse(`{"rest_id":"1","legacy":{"full_text":"x"}}`), 1)
	require.True(t, ok)
	assert.Nil(t, rec.ReplyCount)
	assert.Nil(t, rec.RetweetCount)
	assert.Nil(t, rec.LikeCount)
	assert.Empty(t, rec.Author.Username)
}

func TestTweetTextPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantText  string
		wantTitle string
	}{
		{
			name:     "legacy wins over note",
			payload:  `{"legacy":{"full_text":"L"},"note_tweet":{"note_tweet_results":{"result":{"text":"N"}}}}`,
			wantText: "L",
		},
		{
			name:     "note rich_text when legacy empty",
			payload:  `{"legacy":{"full_text":""},"note_tweet":{"note_tweet_results":{"result":{"rich_text":{"text":"X"}}}}}`,
			wantText: "X",
		},
		{
			name:     "note richtext variant",
			payload:  `{"note_tweet":{"note_tweet_results":{"result":{"richtext":{"text":"R"}}}}}`,
			wantText: "R",
		},
		{
			name:     "note plain text",
			payload:  `{"note_tweet":{"note_tweet_results":{"result":{"text":"T"}}}}`,
			wantText: "T",
		},
		{
			name:     "note wins over article",
			payload:  `{"note_tweet":{"note_tweet_results":{"result":{"text":"N"}}},"article":{"article_results":{"result":{"plain_text":"A"}}}}`,
			wantText: "N",
		},
		{
			name:      "article plain text with title",
			payload:   `{"article":{"article_results":{"result":{"title":"Headline","plain_text":"Body"}}}}`,
			wantText:  "Body",
			wantTitle: "Headline",
		},
		{
			name:      "article sections concatenated in order",
			payload:   `{"article":{"article_results":{"result":{"title":"T","sections":[{"items":[{"text":"A"},{"text":"B"}]}]}}}}`,
			wantText:  "AB",
			wantTitle: "T",
		},
		{
			name:     "article sections without title",
			payload:  `{"article":{"result":{"sections":[{"items":[{"text":"A"}]},{"items":[{"value":"B"},"C"]}]}}}`,
			wantText: "ABC",
		},
		{
			name:     "article content-state blocks",
			payload:  `{"article":{"article_results":{"result":{"content_state":{"blocks":[{"text":"one"},{"text":""},{"text":"two"}]}}}}}`,
			wantText: "one\ntwo",
		},
		{
			name:      "article preview text as last resort",
			payload:   `{"article":{"article_results":{"result":{"title":"T","preview_text":"P"}}}}`,
			wantText:  "P",
			wantTitle: "T",
		},
		{
			name:     "nested tweet wrapper",
			payload:  `{"__typename":"TweetWithVisibilityResults","tweet":{"legacy":{"full_text":"inner"}}}`,
			wantText: "inner",
		},
		{
			name:     "nothing resolvable",
			payload:  `{"legacy":{"full_text":""},"note_tweet":{},"article":{"article_results":{}}}`,
			wantText: "",
		},
		{
			name:     "not an object",
			payload:  `"just a string"`,
			wantText: "",
		},
		{
			name:     "wrong types tolerated",
			payload:  `{"legacy":{"full_text":42},"note_tweet":{"note_tweet_results":{"result":{"text":["x"]}}}}`,
			wantText: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, title := TweetText(gjson.Parse(tt.payload))
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}

const quoteChain = `{
  "rest_id": "1",
  "legacy": {"full_text": "top"},
  "quoted_status_result": {"result": {
    "rest_id": "2",
    "legacy": {"full_text": "middle"},
    "quoted_status_result": {"result": {
      "rest_id": "3",
      "legacy": {"full_text": "bottom"}
    }}
  }}
}`

func TestTweetQuoteDepth(t *testing.T) {
	r := gjson.Parse(quoteChain)

	rec, ok := Tweet(r, 0)
	require.True(t, ok)
	assert.Equal(t, "top", rec.Text)
	assert.Nil(t, rec.QuotedTweet)

	rec, ok = Tweet(r, 1)
	require.True(t, ok)
	require.NotNil(t, rec.QuotedTweet)
	assert.Equal(t, "2", rec.QuotedTweet.ID)
	assert.Equal(t, "middle", rec.QuotedTweet.Text)
	assert.Nil(t, rec.QuotedTweet.QuotedTweet)

	rec, ok = Tweet(r, 5)
	require.True(t, ok)
	require.NotNil(t, rec.QuotedTweet)
	require.NotNil(t, rec.QuotedTweet.QuotedTweet)
	assert.Equal(t, "bottom", rec.QuotedTweet.QuotedTweet.Text)
}

func TestTweetUnwrapsVisibilityResults(t *testing.T) {
	payload := `{"__typename":"TweetWithVisibilityResults","tweet":{"rest_id":"55","legacy":{"full_text":"limited","favorite_count":1}}}`
	rec, ok := Tweet(gjson.Parse(payload), 1)
	require.True(t, ok)
	assert.Equal(t, "55", rec.ID)
	assert.Equal(t, "limited", rec.Text)
	require.NotNil(t, rec.LikeCount)
}

func TestTweetTombstoneIsNotATweet(t *testing.T) {
	_, ok := Tweet(gjson.Parse(`{"__typename":"TweetTombstone","tombstone":{"text":{"text":"deleted"}}}`), 1)
	assert.False(t, ok)

	_, ok = Tweet(gjson.Result{}, 1)
	assert.False(t, ok)
}

func TestUserPrefersLegacy(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    types.UserRecord
		ok      bool
	}{
		{
			name:    "legacy only",
			payload: `{"rest_id":"7","is_blue_verified":true,"legacy":{"screen_name":"alice","name":"Alice","description":"bio","followers_count":10,"friends_count":3,"profile_image_url_https":"https://img/a.png","created_at":"Mon Jan 01 00:00:00 +0000 2018"}}`,
			want: types.UserRecord{
				ID: "7", Username: "alice", Name: "Alice", Description: "bio",
				FollowersCount: intPtr(10), FollowingCount: intPtr(3), IsBlueVerified: true,
				ProfileImageURL: "https://img/a.png", CreatedAt: "Mon Jan 01 00:00:00 +0000 2018",
			},
			ok: true,
		},
		{
			name:    "core only",
			payload: `{"rest_id":"8","core":{"screen_name":"bob","name":"Bob","created_at":"Tue Feb 02 00:00:00 +0000 2021"},"avatar":{"image_url":"https://img/b.png"}}`,
			want: types.UserRecord{
				ID: "8", Username: "bob", Name: "Bob",
				ProfileImageURL: "https://img/b.png", CreatedAt: "Tue Feb 02 00:00:00 +0000 2021",
			},
			ok: true,
		},
		{
			name:    "both shapes, legacy wins",
			payload: `{"rest_id":"9","core":{"screen_name":"core_name","name":"Core"},"legacy":{"screen_name":"legacy_name","name":"Legacy"}}`,
			want:    types.UserRecord{ID: "9", Username: "legacy_name", Name: "Legacy"},
			ok:      true,
		},
		{
			name:    "empty legacy falls through to core",
			payload: `{"rest_id":"9","core":{"screen_name":"c","name":"C"},"legacy":{"screen_name":"","followers_count":0}}`,
			want:    types.UserRecord{ID: "9", Username: "c", Name: "C", FollowersCount: intPtr(0)},
			ok:      true,
		},
		{
			name:    "unavailable",
			payload: `{"__typename":"UserUnavailable"}`,
			ok:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := User(gjson.Parse(tt.payload))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func intPtr(n int) *int { return &n }
