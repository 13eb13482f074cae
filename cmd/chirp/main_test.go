// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chirp/internal/store"
	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Client.QuoteDepth)
	assert.Empty(t, cfg.Client.QueryIDs)
	assert.Empty(t, cfg.Retry)
}

func TestLoadConfigFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
timeout: 5s
quote_depth: 0
requests_per_second: 2.5
query_ids:
  CreateTweet: abc123
retry:
  post:
    max_attempts: 2
    base_delay: 250ms
store:
  path: /tmp/x.db
`)))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 0, cfg.Client.QuoteDepth)
	assert.InDelta(t, 2.5, cfg.Client.RequestsPerSecond, 0.001)
	assert.Equal(t, map[string]string{"CreateTweet": "abc123"}, cfg.Client.QueryIDs)
	assert.Equal(t, 2, cfg.Retry["post"].MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry["post"].BaseDelay)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
}

func TestLoadConfigUnknownOperation(t *testing.T) {
	v := viper.New()
	v.Set("query_ids", map[string]string{"NoSuchOp": "x"})
	_, err := loadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestEmitJSON(t *testing.T) {
	var buf bytes.Buffer
	res := types.OK(types.PostResult{TweetID: "1", URL: "https://x.com/i/status/1"})
	require.NoError(t, emit(&buf, "json", res, nil))
	assert.Contains(t, buf.String(), `"success": true`)
	assert.Contains(t, buf.String(), `"tweet_id": "1"`)
}

func TestEmitFailureIsRendered(t *testing.T) {
	cause := errors.New("boom")
	for _, format := range []string{"json", "yaml", "text"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			err := emit(&buf, format, types.ResultOf(types.PostResult{}, cause), cause)
			require.Error(t, err)

			var rendered *renderedError
			assert.True(t, errors.As(err, &rendered))
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, buf.String(), "boom")
		})
	}
}

func TestEmitUnknownFormat(t *testing.T) {
	err := emit(&bytes.Buffer{}, "xml", types.OK(1), nil)
	require.Error(t, err)
	var rendered *renderedError
	assert.False(t, errors.As(err, &rendered))
}

func TestWriteTextTweetPage(t *testing.T) {
	var buf bytes.Buffer
	likes := 3
	writeText(&buf, types.TweetPage{
		Tweets: []types.TweetRecord{{
			ID:        "9",
			Text:      "hello\nworld",
			Author:    types.Author{Username: "alice", Name: "Alice"},
			LikeCount: &likes,
		}},
		NextCursor: "c2",
	})
	out := buf.String()
	assert.Contains(t, out, "Alice (@alice)")
	assert.Contains(t, out, "  world")
	assert.Contains(t, out, "3 likes")
	assert.Contains(t, out, "next cursor: c2")
}

func TestWriteTextCounts(t *testing.T) {
	var buf bytes.Buffer
	writeText(&buf, store.Counts{Tweets: 4, Users: 2})
	assert.Equal(t, "tweets: 4\nusers:  2\n", buf.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(errors.New("HTTP 401 Unauthorized: bad token")))
	assert.Equal(t, 2, exitCode(errors.New("database disk image is malformed")))
	assert.Equal(t, 1, exitCode(errors.New("request timed out")))
}

func TestCollect(t *testing.T) {
	tweets, users := collect(types.TweetDetail{
		Tweet:   types.TweetRecord{ID: "1"},
		Thread:  []types.TweetRecord{{ID: "1"}, {ID: "2"}},
		Replies: []types.TweetRecord{{ID: "3"}},
	})
	assert.Len(t, tweets, 3)
	assert.Empty(t, users)

	tweets, users = collect(types.UserPage{Users: []types.UserRecord{{ID: "u"}}})
	assert.Empty(t, tweets)
	assert.Len(t, users, 1)

	tweets, users = collect(42)
	assert.Nil(t, tweets)
	assert.Nil(t, users)
}

type fakeUploader struct {
	calls []twitter.MediaOptions
	fail  string
}

func (f *fakeUploader) UploadMedia(ctx context.Context, data []byte, opts twitter.MediaOptions) (twitter.UploadedMedia, error) {
	return twitter.UploadedMedia{}, errors.New("unused")
}

func (f *fakeUploader) UploadFile(ctx context.Context, path string, opts twitter.MediaOptions) (twitter.UploadedMedia, error) {
	if path == f.fail {
		return twitter.UploadedMedia{}, errors.New("unsupported media type")
	}
	f.calls = append(f.calls, opts)
	return twitter.UploadedMedia{ID: "m-" + path}, nil
}

func TestUploadAll(t *testing.T) {
	up := &fakeUploader{}
	ids, err := uploadAll(context.Background(), up, []string{"a.png", "b.png"}, []string{"first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-a.png", "m-b.png"}, ids)
	require.Len(t, up.calls, 2)
	assert.Equal(t, "first", up.calls[0].AltText)
	assert.Empty(t, up.calls[1].AltText)
}

func TestUploadAllLimits(t *testing.T) {
	up := &fakeUploader{}
	_, err := uploadAll(context.Background(), up, []string{"1", "2", "3", "4", "5"}, nil)
	require.Error(t, err)
	assert.Empty(t, up.calls)
}

func TestUploadAllStopsOnFailure(t *testing.T) {
	up := &fakeUploader{fail: "bad.bin"}
	_, err := uploadAll(context.Background(), up, []string{"ok.png", "bad.bin", "late.png"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading bad.bin")
	assert.Len(t, up.calls, 1)
}
