// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chirp/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := now
	now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	t.Cleanup(func() { now = old })

	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(n int) *int { return &n }

func sampleTweets() []types.TweetRecord {
	quoted := types.TweetRecord{ID: "10", Text: "quoted", AuthorID: "3", Author: types.Author{Username: "carol"}}
	return []types.TweetRecord{
		{ID: "1", Text: "Hello Go", AuthorID: "1", Author: types.Author{Username: "alice", Name: "Alice"}, ConversationID: "1", LikeCount: intPtr(4)},
		{ID: "2", Text: "reply about rust", AuthorID: "2", Author: types.Author{Username: "bob"}, ConversationID: "1", QuotedTweet: &quoted},
	}
}

// --- tests ---

func TestSaveAndListTweets(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	n, err := s.SaveTweets(ctx, sampleTweets())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := s.Tweets(ctx, TweetQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byUser, err := s.Tweets(ctx, TweetQuery{Username: "@ALICE"})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "Hello Go", byUser[0].Text)
	require.NotNil(t, byUser[0].LikeCount)
	assert.Equal(t, 4, *byUser[0].LikeCount)

	matching, err := s.Tweets(ctx, TweetQuery{Contains: "RUST"})
	require.NoError(t, err)
	require.Len(t, matching, 1)
	require.NotNil(t, matching[0].QuotedTweet)
	assert.Equal(t, "10", matching[0].QuotedTweet.ID)

	conv, err := s.Tweets(ctx, TweetQuery{ConversationID: "1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, conv, 1)
}

func TestSaveTweetsUpserts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveTweets(ctx, []types.TweetRecord{{ID: "1", Text: "v1"}})
	require.NoError(t, err)
	_, err = s.SaveTweets(ctx, []types.TweetRecord{{ID: "1", Text: "v2"}, {Text: "no id"}})
	require.NoError(t, err)

	got, err := s.Tweets(ctx, TweetQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Text)
}

func TestUsersStubsAndProfiles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveTweets(ctx, sampleTweets())
	require.NoError(t, err)

	users, err := s.Users(ctx, UserQuery{})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = s.SaveUsers(ctx, []types.UserRecord{{ID: "1", Username: "alice", Name: "Alice A.", FollowersCount: intPtr(99)}})
	require.NoError(t, err)

	found, err := s.Users(ctx, UserQuery{Contains: "alice a"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].FollowersCount)
	assert.Equal(t, 99, *found[0].FollowersCount)

	counts, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Tweets: 3, Users: 3}, counts)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.SaveTweets(ctx, sampleTweets())
	require.NoError(t, err)

	var yamlOut bytes.Buffer
	require.NoError(t, s.Export(ctx, &yamlOut, "yaml"))
	var snap Snapshot
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &snap))
	assert.Len(t, snap.Tweets, 3)
	assert.Len(t, snap.Users, 3)
	assert.NotEmpty(t, snap.ExportedAt)

	var jsonOut bytes.Buffer
	require.NoError(t, s.Export(ctx, &jsonOut, "json"))
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	assert.Len(t, decoded.Tweets, 3)

	assert.Error(t, s.Export(ctx, &jsonOut, "csv"))
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s.SaveUsers(context.Background(), []types.UserRecord{{ID: "1", Username: "a"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	counts, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Users)
}
