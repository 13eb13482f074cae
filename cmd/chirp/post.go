// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

// --- tweet subcommand ---

var tweetCmd = &cobra.Command{
	Use:   "tweet <text>",
	Short: "Post a tweet",
	Long: `Tweet posts text, optionally with media attachments (--media, repeatable)
and a quoted tweet (--quote). If the GraphQL endpoint is unavailable the
post falls back to the legacy status update form.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPost(cmd, "", strings.Join(args, " "))
	},
}

// --- reply subcommand ---

var replyCmd = &cobra.Command{
	Use:   "reply <tweet-id-or-url> <text>",
	Short: "Reply to a tweet",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPost(cmd, twitter.TweetIDFromURL(args[0]), strings.Join(args[1:], " "))
	},
}

// --- upload subcommand ---

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a media file and print its media id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.finish()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		alt, _ := cmd.Flags().GetString("alt")
		m, err := s.client.UploadFile(ctx, args[0], twitter.MediaOptions{AltText: alt})
		return emit(os.Stdout, viper.GetString("output"), types.ResultOf(m, err), err)
	},
}

func runPost(cmd *cobra.Command, replyTo, text string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	files, _ := cmd.Flags().GetStringArray("media")
	alts, _ := cmd.Flags().GetStringArray("alt")
	mediaIDs, err := uploadAll(ctx, s.client, files, alts)
	if err != nil {
		return emit(os.Stdout, viper.GetString("output"), types.Fail[types.PostResult](err.Error()), err)
	}

	quote, _ := cmd.Flags().GetString("quote")
	if quote != "" && !strings.HasPrefix(quote, "http") {
		quote = "https://x.com/i/status/" + quote
	}

	res, err := s.client.Post(ctx, twitter.PostParams{
		Text:          text,
		MediaIDs:      mediaIDs,
		AttachmentURL: quote,
		ReplyTo:       replyTo,
	})
	return emit(os.Stdout, viper.GetString("output"), types.ResultOf(res, err), err)
}

// uploadAll uploads files in order, pairing each with the alt text at the
// same position.
func uploadAll(ctx context.Context, up twitter.MediaUploader, files, alts []string) ([]string, error) {
	if len(files) > 4 {
		return nil, fmt.Errorf("at most 4 media attachments are allowed, got %d", len(files))
	}
	ids := make([]string, 0, len(files))
	for i, f := range files {
		opts := twitter.MediaOptions{}
		if i < len(alts) {
			opts.AltText = alts[i]
		}
		m, err := up.UploadFile(ctx, f, opts)
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", f, err)
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func init() {
	for _, c := range []*cobra.Command{tweetCmd, replyCmd} {
		c.Flags().StringArray("media", nil, "attach a media file (repeatable, up to 4)")
		c.Flags().StringArray("alt", nil, "alt text for the media at the same position (repeatable)")
		c.Flags().String("quote", "", "quote a tweet by id or URL")
		rootCmd.AddCommand(c)
	}
	uploadCmd.Flags().String("alt", "", "alt text for the uploaded media")
	rootCmd.AddCommand(uploadCmd)
}
