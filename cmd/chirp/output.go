// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/internal/store"
	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

// renderedError marks a failure already written to stdout as a result, so
// main does not print it a second time.
type renderedError struct{ err error }

func (e *renderedError) Error() string { return e.err.Error() }
func (e *renderedError) Unwrap() error { return e.err }

// emit writes res to w in the requested format. A failed result is still
// written and then returned as an error so the process exits non-zero.
func emit[T any](w io.Writer, format string, res types.Result[T], cause error) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	case "text":
		if !res.Success {
			fmt.Fprintf(w, "error: %s\n", res.Error)
			break
		}
		writeText(w, res.Value)
	default:
		return fmt.Errorf("unsupported output format %q: use json, yaml or text", format)
	}

	if !res.Success {
		if cause == nil {
			cause = fmt.Errorf("%s", res.Error)
		}
		return &renderedError{err: cause}
	}
	return nil
}

// writeText renders the value types commands produce.
func writeText(w io.Writer, v any) {
	switch v := v.(type) {
	case types.PostResult:
		fmt.Fprintf(w, "posted %s\n%s\n", v.TweetID, v.URL)
	case types.TweetRecord:
		writeTweet(w, v, "")
	case []types.TweetRecord:
		writeTweets(w, v)
	case types.TweetPage:
		writeTweets(w, v.Tweets)
		if v.NextCursor != "" {
			fmt.Fprintf(w, "next cursor: %s\n", v.NextCursor)
		}
	case types.TweetDetail:
		writeTweet(w, v.Tweet, "")
		if len(v.Thread) > 1 {
			fmt.Fprintf(w, "\nthread (%d)\n", len(v.Thread))
			writeTweets(w, v.Thread)
		}
		if len(v.Replies) > 0 {
			fmt.Fprintf(w, "\nreplies (%d)\n", len(v.Replies))
			writeTweets(w, v.Replies)
		}
	case types.UserRecord:
		writeUser(w, v)
	case types.UserPage:
		for _, u := range v.Users {
			writeUser(w, u)
		}
		if v.NextCursor != "" {
			fmt.Fprintf(w, "next cursor: %s\n", v.NextCursor)
		}
	case []types.UserRecord:
		for _, u := range v {
			writeUser(w, u)
		}
	case []queryid.Entry:
		for _, e := range v {
			fmt.Fprintf(w, "%-22s  %-24s  %-10s  %s\n", e.Operation, e.ID, e.State, e.Origin)
		}
	case store.Counts:
		fmt.Fprintf(w, "tweets: %d\nusers:  %d\n", v.Tweets, v.Users)
	case twitter.UploadedMedia:
		fmt.Fprintf(w, "media %s (%s, %d bytes)\n", v.ID, v.MimeType, v.Size)
	default:
		fmt.Fprintf(w, "%v\n", v)
	}
}

func writeTweets(w io.Writer, tweets []types.TweetRecord) {
	if len(tweets) == 0 {
		fmt.Fprintln(w, "No tweets found.")
		return
	}
	for i, t := range tweets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeTweet(w, t, "")
	}
}

func writeTweet(w io.Writer, t types.TweetRecord, indent string) {
	header := "@" + t.Author.Username
	if t.Author.Name != "" {
		header = t.Author.Name + " (" + header + ")"
	}
	if ts, ok := t.Time(); ok {
		header += "  " + ts.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(w, "%s%s\n", indent, header)
	if t.ArticleTitle != "" {
		fmt.Fprintf(w, "%s# %s\n", indent, t.ArticleTitle)
	}
	for _, line := range strings.Split(t.Text, "\n") {
		fmt.Fprintf(w, "%s  %s\n", indent, line)
	}
	for _, m := range t.Media {
		fmt.Fprintf(w, "%s  [%s] %s\n", indent, m.Kind, m.URL)
	}
	if t.QuotedTweet != nil {
		writeTweet(w, *t.QuotedTweet, indent+"  > ")
	}
	var counts []string
	if t.ReplyCount != nil {
		counts = append(counts, fmt.Sprintf("%d replies", *t.ReplyCount))
	}
	if t.RetweetCount != nil {
		counts = append(counts, fmt.Sprintf("%d retweets", *t.RetweetCount))
	}
	if t.LikeCount != nil {
		counts = append(counts, fmt.Sprintf("%d likes", *t.LikeCount))
	}
	if len(counts) > 0 {
		fmt.Fprintf(w, "%s  %s\n", indent, strings.Join(counts, ", "))
	}
	fmt.Fprintf(w, "%s  %s\n", indent, t.URL())
}

func writeUser(w io.Writer, u types.UserRecord) {
	line := fmt.Sprintf("@%s  %s  id=%s", u.Username, u.Name, u.ID)
	if u.IsBlueVerified {
		line += "  verified"
	}
	if u.FollowersCount != nil {
		line += fmt.Sprintf("  followers=%d", *u.FollowersCount)
	}
	if u.FollowingCount != nil {
		line += fmt.Sprintf("  following=%d", *u.FollowingCount)
	}
	fmt.Fprintln(w, line)
	if u.Description != "" {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(u.Description, "\n", " "))
	}
}
