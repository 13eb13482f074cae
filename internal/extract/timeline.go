// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/pkg/types"
)

// entries flattens every timeline entry carried by an instructions array:
// added entries, replaced and pinned entries, and module items appended to
// an existing module.
func entries(instructions gjson.Result) []gjson.Result {
	var out []gjson.Result
	for _, ins := range instructions.Array() {
		switch ins.Get("type").String() {
		case "TimelineAddEntries", "":
			out = append(out, ins.Get("entries").Array()...)
		case "TimelineReplaceEntry", "TimelinePinEntry":
			out = append(out, ins.Get("entry"))
		case "TimelineAddToModule":
			for _, mi := range ins.Get("moduleItems").Array() {
				out = append(out, mi.Get("item"))
			}
		}
	}
	return out
}

// itemContents returns the itemContent objects inside an entry: one for a
// plain item, several for a module (conversation threads, who-to-follow).
func itemContents(entry gjson.Result) []gjson.Result {
	if ic := entry.Get("content.itemContent"); ic.Exists() {
		return []gjson.Result{ic}
	}
	if ic := entry.Get("itemContent"); ic.Exists() {
		return []gjson.Result{ic}
	}
	var out []gjson.Result
	for _, it := range entry.Get("content.items").Array() {
		if ic := it.Get("item.itemContent"); ic.Exists() {
			out = append(out, ic)
		}
	}
	return out
}

// BottomCursor returns the cursor that fetches the next (older) page.
func BottomCursor(instructions gjson.Result) string {
	for _, e := range entries(instructions) {
		for _, c := range []gjson.Result{e.Get("content"), e.Get("content.itemContent")} {
			if c.Get("cursorType").String() == "Bottom" {
				if v := firstString(c, "value"); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// Tweets extracts every tweet in an instructions array, in timeline order,
// without duplicates.
func Tweets(instructions gjson.Result, quoteDepth int) []types.TweetRecord {
	seen := make(map[string]bool)
	var out []types.TweetRecord
	for _, e := range entries(instructions) {
		for _, ic := range itemContents(e) {
			res := ic.Get("tweet_results.result")
			if !res.Exists() {
				continue
			}
			t, ok := Tweet(res, quoteDepth)
			if !ok || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out
}

// Users extracts every user in an instructions array without duplicates.
func Users(instructions gjson.Result) []types.UserRecord {
	seen := make(map[string]bool)
	var out []types.UserRecord
	for _, e := range entries(instructions) {
		for _, ic := range itemContents(e) {
			u, ok := User(ic.Get("user_results.result"))
			if !ok {
				continue
			}
			key := u.ID
			if key == "" {
				key = "@" + u.Username
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, u)
		}
	}
	return out
}

// Instructions locates the instructions array in a timeline response. The
// paths cover search, home, bookmarks, likes, user tweets, followers and
// tweet detail responses.
func Instructions(body gjson.Result) gjson.Result {
	return firstArray(body,
		"data.search_by_raw_query.search_timeline.timeline.instructions",
		"data.home.home_timeline_urt.instructions",
		"data.bookmark_timeline_v2.timeline.instructions",
		"data.threaded_conversation_with_injections_v2.instructions",
		"data.user.result.timeline_v2.timeline.instructions",
		"data.user.result.timeline.timeline.instructions",
		"data.user.result.timeline.timeline_v2.instructions",
	)
}
