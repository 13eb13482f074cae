// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/pkg/types"
)

// DefaultQuoteDepth is the number of quoted-tweet levels materialized when
// the caller does not choose one.
const DefaultQuoteDepth = 1

// unwrapTweet returns the tweet object inside visibility wrappers.
func unwrapTweet(r gjson.Result) gjson.Result {
	if r.Get("legacy").Exists() || r.Get("rest_id").Exists() {
		return r
	}
	if inner := r.Get("tweet"); inner.IsObject() {
		return inner
	}
	return r
}

// Tweet extracts a TweetRecord from a GraphQL tweet result. quoteDepth
// bounds quoted-tweet recursion: 0 leaves QuotedTweet nil. The second
// return value is false when r does not look like a tweet at all (missing,
// tombstoned or unavailable); the record is still usable and empty.
func Tweet(r gjson.Result, quoteDepth int) (types.TweetRecord, bool) {
	t := unwrapTweet(r)
	id := firstString(t, "rest_id", "legacy.id_str")
	if id == "" {
		return types.TweetRecord{}, false
	}

	text, title := TweetText(r)
	rec := types.TweetRecord{
		ID:                id,
		Text:              text,
		ArticleTitle:      title,
		CreatedAt:         firstString(t, "legacy.created_at"),
		ReplyCount:        optInt(t, "legacy.reply_count"),
		RetweetCount:      optInt(t, "legacy.retweet_count"),
		LikeCount:         optInt(t, "legacy.favorite_count"),
		ConversationID:    firstString(t, "legacy.conversation_id_str"),
		InReplyToStatusID: firstString(t, "legacy.in_reply_to_status_id_str"),
		AuthorID:          firstString(t, "legacy.user_id_str", "core.user_results.result.rest_id"),
		Media:             media(t),
	}

	if u, ok := User(t.Get("core.user_results.result")); ok {
		rec.Author = types.Author{Username: u.Username, Name: u.Name}
	}

	if quoteDepth > 0 {
		q := t.Get("quoted_status_result.result")
		if q.Exists() {
			if quoted, ok := Tweet(q, quoteDepth-1); ok {
				rec.QuotedTweet = &quoted
			}
		}
	}

	return rec, true
}

// TweetText resolves the display text of a tweet result. Exactly one shape
// wins, in this order: legacy text, note tweet, article, then the nested
// "tweet" wrapper. title is only set for article tweets.
func TweetText(r gjson.Result) (text, title string) {
	return tweetText(r, 0)
}

// maxWrapperDepth stops pathological self-nested payloads.
const maxWrapperDepth = 4

func tweetText(r gjson.Result, depth int) (string, string) {
	if !r.IsObject() {
		return "", ""
	}
	if s := firstString(r, "legacy.full_text", "legacy.text"); s != "" {
		return s, ""
	}
	if s := noteText(r); s != "" {
		return s, ""
	}
	if body, title := ArticleText(r); body != "" {
		return body, title
	}
	if inner := r.Get("tweet"); inner.IsObject() && depth < maxWrapperDepth {
		return tweetText(inner, depth+1)
	}
	return "", ""
}

func noteText(r gjson.Result) string {
	note := firstObject(r,
		"note_tweet.note_tweet_results.result",
		"note_tweet.note_tweet_results",
		"note_tweet.result",
	)
	if !note.Exists() {
		return ""
	}
	return firstString(note, "text", "rich_text.text", "richtext.text", "richText.text")
}

// media collects attachments from extended_entities, falling back to the
// plain entities list.
func media(t gjson.Result) []types.Media {
	items := t.Get("legacy.extended_entities.media")
	if !items.IsArray() || len(items.Array()) == 0 {
		items = t.Get("legacy.entities.media")
	}
	if !items.IsArray() {
		return nil
	}

	var out []types.Media
	for _, m := range items.Array() {
		kind := types.MediaKind(firstString(m, "type"))
		item := types.Media{
			Kind:   kind,
			Width:  int(m.Get("original_info.width").Int()),
			Height: int(m.Get("original_info.height").Int()),
		}
		switch kind {
		case types.MediaVideo, types.MediaGIF:
			item.URL = bestVariant(m.Get("video_info.variants"))
			item.PreviewURL = firstString(m, "media_url_https", "media_url")
		default:
			item.Kind = types.MediaPhoto
			item.URL = firstString(m, "media_url_https", "media_url")
		}
		if item.URL != "" {
			out = append(out, item)
		}
	}
	return out
}

// bestVariant picks the highest-bitrate mp4 variant, or the first variant
// with a URL when none advertises a bitrate.
func bestVariant(variants gjson.Result) string {
	best, bestRate := "", int64(-1)
	for _, v := range variants.Array() {
		url := firstString(v, "url")
		if url == "" {
			continue
		}
		ct := v.Get("content_type").String()
		if ct != "" && !strings.Contains(ct, "mp4") {
			if best == "" {
				best = url
			}
			continue
		}
		if rate := v.Get("bitrate").Int(); rate > bestRate {
			best, bestRate = url, rate
		}
	}
	return best
}
