// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chirp/pkg/types"
)

const (
	pathOld     = "/i/api/graphql/old/CreateTweet"
	pathNew     = "/i/api/graphql/new/CreateTweet"
	pathGeneric = "/i/api/graphql"
	pathLegacy  = "/i/api/1.1/statuses/update.json"
)

func TestPostPrimarySuccess(t *testing.T) {
	var payload map[string]any
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathOld, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeJSON(w, 200, `{"data":{"create_tweet":{"tweet_results":{"result":{"rest_id":"555"}}}}}`)
	})

	res, err := c.Post(context.Background(), PostParams{
		Text:          "hello",
		MediaIDs:      []string{"m1", "m2"},
		ReplyTo:       "100",
		AttachmentURL: "https://x.com/a/status/1",
	})
	require.NoError(t, err)
	assert.Equal(t, "555", res.TweetID)
	assert.Equal(t, 1, rec.count(pathOld))

	assert.Equal(t, "old", payload["queryId"])
	vars := payload["variables"].(map[string]any)
	assert.Equal(t, "hello", vars["tweet_text"])
	assert.Equal(t, "https://x.com/a/status/1", vars["attachment_url"])
	assert.Equal(t, "100", vars["reply"].(map[string]any)["in_reply_to_tweet_id"])
	entities := vars["media"].(map[string]any)["media_entities"].([]any)
	require.Len(t, entities, 2)
	assert.Equal(t, "m2", entities[1].(map[string]any)["media_id"])
}

func TestPostLegacyAfterEvery404(t *testing.T) {
	var form map[string][]string
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathOld, pathNew, pathGeneric:
			writeJSON(w, 404, `not found`)
		case pathLegacy:
			assert.NoError(t, r.ParseForm())
			form = r.PostForm
			writeJSON(w, 200, `{"id_str":"123"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	res := types.ResultOf(c.Reply(context.Background(), "99", "hi there", "m1", "m2"))
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "123", res.Value.TweetID)

	for _, p := range []string{pathOld, pathNew, pathGeneric, pathLegacy} {
		assert.Equal(t, 1, rec.count(p), p)
	}
	assert.Equal(t, []string{"hi there"}, form["status"])
	assert.Equal(t, []string{"99"}, form["in_reply_to_status_id"])
	assert.Equal(t, []string{"m1,m2"}, form["media_ids"])

	m := c.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(tierRefresh)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(tierGeneric)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(tierLegacy)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryIDRefreshes))
}

func TestPostMissingRestID(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":{"create_tweet":{"tweet_results":{}}}}`)
	})

	res := types.ResultOf(c.Tweet(context.Background(), "hello"))
	assert.False(t, res.Success)
	assert.Equal(t, "Tweet created but no ID returned", res.Error)
	assert.Len(t, rec.paths, 1)
}

func TestPostCode226UsesLegacy(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathOld:
			writeJSON(w, 200, `{"errors":[{"code":226,"message":"This request looks like it might be automated."}]}`)
		case pathLegacy:
			writeJSON(w, 200, `{"id_str":"777","text":"hello"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	res, err := c.Tweet(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "777", res.TweetID)
	assert.Equal(t, 0, rec.count(pathGeneric))
}

func TestPostOtherApplicationErrorSurfaces(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"errors":[{"code":187,"message":"Status is a duplicate."}]}`)
	})

	_, err := c.Tweet(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status is a duplicate.")
	assert.Equal(t, 0, rec.count(pathLegacy))
}

func TestPostAllTiersFailJoinsMessages(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == pathLegacy {
			writeJSON(w, 403, `{"errors":[{"code":64,"message":"suspended"}]}`)
			return
		}
		writeJSON(w, 404, ``)
	})

	_, err := c.Tweet(context.Background(), "hello")
	var pe *PostError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Failures, 4)
	assert.Equal(t, strings.Join(pe.Failures, "; "), err.Error())
	assert.Contains(t, pe.Failures[3], "HTTP 403")
}

func TestPostLegacyWithoutID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == pathLegacy {
			writeJSON(w, 200, `{}`)
			return
		}
		writeJSON(w, 404, ``)
	})

	_, err := c.Tweet(context.Background(), "hello")
	assert.True(t, errors.Is(err, ErrNoTweetID))
}

func TestPostEmpty(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
	})

	_, err := c.Tweet(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTweet)
	assert.Empty(t, rec.paths)
}
