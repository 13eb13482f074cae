// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const searchResponse = `{"data":{"search_by_raw_query":{"search_timeline":{"timeline":{"instructions":[
  {"type":"TimelineClearCache"},
  {"type":"TimelineAddEntries","entries":[
    {"entryId":"tweet-1","content":{"entryType":"TimelineTimelineItem","itemContent":{"tweet_results":{"result":{"rest_id":"1","legacy":{"full_text":"first"}}}}}},
    {"entryId":"tweet-2","content":{"entryType":"TimelineTimelineItem","itemContent":{"tweet_results":{"result":{"__typename":"TweetWithVisibilityResults","tweet":{"rest_id":"2","legacy":{"full_text":"second"}}}}}}},
    {"entryId":"tweet-1-dup","content":{"entryType":"TimelineTimelineItem","itemContent":{"tweet_results":{"result":{"rest_id":"1","legacy":{"full_text":"first"}}}}}},
    {"entryId":"tombstone","content":{"itemContent":{"tweet_results":{"result":{"__typename":"TweetTombstone"}}}}},
    {"entryId":"cursor-top-1","content":{"entryType":"TimelineTimelineCursor","cursorType":"Top","value":"TOP"}},
    {"entryId":"cursor-bottom-1","content":{"entryType":"TimelineTimelineCursor","cursorType":"Bottom","value":"NEXT"}}
  ]},
  {"type":"TimelineReplaceEntry","entry":{"entryId":"tweet-3","content":{"itemContent":{"tweet_results":{"result":{"rest_id":"3","legacy":{"full_text":"third"}}}}}}}
]}}}}}`

func TestTimelineTweetsAndCursor(t *testing.T) {
	body := gjson.Parse(searchResponse)
	ins := Instructions(body)
	require.True(t, ins.IsArray())

	tweets := Tweets(ins, 1)
	require.Len(t, tweets, 3)
	assert.Equal(t, "1", tweets[0].ID)
	assert.Equal(t, "2", tweets[1].ID)
	assert.Equal(t, "second", tweets[1].Text)
	assert.Equal(t, "3", tweets[2].ID)

	assert.Equal(t, "NEXT", BottomCursor(ins))
}

const detailResponse = `{"data":{"threaded_conversation_with_injections_v2":{"instructions":[
  {"type":"TimelineAddEntries","entries":[
    {"entryId":"tweet-10","content":{"itemContent":{"tweet_results":{"result":{"rest_id":"10","legacy":{"full_text":"focal"}}}}}},
    {"entryId":"conversationthread-11","content":{"entryType":"TimelineTimelineModule","items":[
      {"item":{"itemContent":{"tweet_results":{"result":{"rest_id":"11","legacy":{"full_text":"reply a"}}}}}},
      {"item":{"itemContent":{"tweet_results":{"result":{"rest_id":"12","legacy":{"full_text":"reply b"}}}}}},
      {"item":{"itemContent":{"cursorType":"ShowMore","value":"MORE"}}}
    ]}},
    {"entryId":"cursor-bottom-x","content":{"itemContent":{"cursorType":"Bottom","value":"DETAIL_NEXT"}}}
  ]},
  {"type":"TimelineAddToModule","moduleItems":[
    {"item":{"itemContent":{"tweet_results":{"result":{"rest_id":"13","legacy":{"full_text":"reply c"}}}}}}
  ]}
]}}}`

func TestTimelineModules(t *testing.T) {
	ins := Instructions(gjson.Parse(detailResponse))
	tweets := Tweets(ins, 0)

	ids := make([]string, 0, len(tweets))
	for _, tw := range tweets {
		ids = append(ids, tw.ID)
	}
	assert.Equal(t, []string{"10", "11", "12", "13"}, ids)
	assert.Equal(t, "DETAIL_NEXT", BottomCursor(ins))
}

const followersResponse = `{"data":{"user":{"result":{"timeline":{"timeline":{"instructions":[
  {"type":"TimelineAddEntries","entries":[
    {"entryId":"user-1","content":{"itemContent":{"user_results":{"result":{"rest_id":"1","legacy":{"screen_name":"a","name":"A"}}}}}},
    {"entryId":"user-2","content":{"itemContent":{"user_results":{"result":{"rest_id":"2","core":{"screen_name":"b","name":"B"}}}}}},
    {"entryId":"user-1-again","content":{"itemContent":{"user_results":{"result":{"rest_id":"1","legacy":{"screen_name":"a"}}}}}},
    {"entryId":"cursor-bottom","content":{"cursorType":"Bottom","value":"USERS_NEXT"}}
  ]}
]}}}}}}`

func TestTimelineUsers(t *testing.T) {
	ins := Instructions(gjson.Parse(followersResponse))
	users := Users(ins)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].Username)
	assert.Equal(t, "b", users[1].Username)
	assert.Equal(t, "USERS_NEXT", BottomCursor(ins))
}

func TestInstructionsMissing(t *testing.T) {
	ins := Instructions(gjson.Parse(`{"data":{}}`))
	assert.Empty(t, Tweets(ins, 1))
	assert.Empty(t, Users(ins))
	assert.Equal(t, "", BottomCursor(ins))
}

func TestErrors(t *testing.T) {
	body := gjson.Parse(`{"errors":[{"code":226,"message":"This request looks like it might be automated."},{"message":"other","extensions":{"code":88}}]}`)
	errs := Errors(body)
	require.Len(t, errs, 2)
	assert.Equal(t, APIError{Code: 226, Message: "This request looks like it might be automated."}, errs[0])
	assert.Equal(t, APIError{Code: 88, Message: "other"}, errs[1])

	assert.Nil(t, Errors(gjson.Parse(`{"data":{}}`)))
}

func TestCreatedTweetID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"graphql", `{"data":{"create_tweet":{"tweet_results":{"result":{"rest_id":"123"}}}}}`, "123"},
		{"note tweet", `{"data":{"notetweet_create":{"tweet_results":{"result":{"rest_id":"456"}}}}}`, "456"},
		{"legacy", `{"id_str":"789","text":"hi"}`, "789"},
		{"missing", `{"data":{"create_tweet":{"tweet_results":{}}}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CreatedTweetID(gjson.Parse(tt.body)))
		})
	}
}
