// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
)

// appendChunkSize is the size of each APPEND segment.
const appendChunkSize = 1 << 20

// Upload categories the media endpoint understands.
const (
	categoryImage = "tweet_image"
	categoryGIF   = "tweet_gif"
	categoryVideo = "tweet_video"
)

var maxUploadBytes = map[string]int{
	categoryImage: 5 << 20,
	categoryGIF:   15 << 20,
	categoryVideo: 512 << 20,
}

// ErrMediaProcessing is returned while the upstream still processes an
// upload; the long-poll policy retries it.
var ErrMediaProcessing = errors.New("media still processing")

// MediaOptions tunes UploadMedia.
type MediaOptions struct {
	// AltText is attached after upload when non-empty.
	AltText string

	// MimeType skips content sniffing.
	MimeType string
}

// UploadedMedia identifies a finished upload.
type UploadedMedia struct {
	ID       string `json:"media_id" yaml:"media_id"`
	MimeType string `json:"mime_type" yaml:"mime_type"`
	Category string `json:"category" yaml:"category"`
	Size     int    `json:"size" yaml:"size"`
}

// UploadFile reads path and uploads it.
func (c *Client) UploadFile(ctx context.Context, path string, opts MediaOptions) (UploadedMedia, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UploadedMedia{}, fmt.Errorf("reading media %s: %w", path, err)
	}
	return c.UploadMedia(ctx, data, opts)
}

// UploadMedia uploads data with the chunked INIT, APPEND, FINALIZE
// sequence, waits for server-side processing when the upstream asks for
// it, and attaches alt text. Each step runs under the upload policy; the
// processing wait runs under the long-poll policy.
func (c *Client) UploadMedia(ctx context.Context, data []byte, opts MediaOptions) (UploadedMedia, error) {
	if len(data) == 0 {
		return UploadedMedia{}, fmt.Errorf("media upload: empty file")
	}
	mt := opts.MimeType
	if mt == "" {
		mt = mimetype.Detect(data).String()
	}
	mt, _, _ = strings.Cut(mt, ";")
	category, err := mediaCategory(mt)
	if err != nil {
		return UploadedMedia{}, err
	}
	if limit := maxUploadBytes[category]; len(data) > limit {
		return UploadedMedia{}, fmt.Errorf("media upload: %d bytes exceeds the %d byte limit for %s", len(data), limit, category)
	}

	m := UploadedMedia{MimeType: mt, Category: category, Size: len(data)}
	policy := c.retries.PolicyFor(httputil.PolicyUpload)

	initForm := url.Values{}
	initForm.Set("command", "INIT")
	initForm.Set("total_bytes", strconv.Itoa(len(data)))
	initForm.Set("media_type", mt)
	initForm.Set("media_category", category)
	m.ID, err = httputil.Retry(ctx, c.log, policy, "media/INIT", func(ctx context.Context) (string, error) {
		resp, err := c.do(ctx, formRequest("media/INIT", uploadBase, initForm))
		if err != nil {
			return "", retryable(err)
		}
		id := resp.JSON().Get("media_id_string").String()
		if id == "" {
			return "", httputil.Permanent(fmt.Errorf("media INIT: no media id returned"))
		}
		return id, nil
	})
	if err != nil {
		return UploadedMedia{}, err
	}

	for seg, off := 0, 0; off < len(data); seg, off = seg+1, off+appendChunkSize {
		end := min(off+appendChunkSize, len(data))
		req, err := appendRequest(m.ID, seg, data[off:end])
		if err != nil {
			return UploadedMedia{}, err
		}
		_, err = httputil.Retry(ctx, c.log, policy, "media/APPEND", func(ctx context.Context) (struct{}, error) {
			_, err := c.do(ctx, req)
			return struct{}{}, retryable(err)
		})
		if err != nil {
			return UploadedMedia{}, fmt.Errorf("media APPEND segment %d: %w", seg, err)
		}
	}

	fin := url.Values{}
	fin.Set("command", "FINALIZE")
	fin.Set("media_id", m.ID)
	state, err := httputil.Retry(ctx, c.log, policy, "media/FINALIZE", func(ctx context.Context) (string, error) {
		resp, err := c.do(ctx, formRequest("media/FINALIZE", uploadBase, fin))
		if err != nil {
			return "", retryable(err)
		}
		return resp.JSON().Get("processing_info.state").String(), nil
	})
	if err != nil {
		return UploadedMedia{}, fmt.Errorf("media FINALIZE: %w", err)
	}

	if state != "" && state != "succeeded" {
		if err := c.awaitProcessing(ctx, m.ID); err != nil {
			return UploadedMedia{}, err
		}
	}

	if opts.AltText != "" {
		if err := c.setAltText(ctx, m.ID, opts.AltText); err != nil {
			return UploadedMedia{}, err
		}
	}
	c.log.Info("media", "uploaded", logging.Fields{"media_id": m.ID, "category": category, "bytes": len(data)})
	return m, nil
}

// awaitProcessing polls STATUS until the upload succeeds or fails.
func (c *Client) awaitProcessing(ctx context.Context, mediaID string) error {
	policy := c.retries.PolicyFor(httputil.PolicyLongPoll)
	status := url.Values{}
	status.Set("command", "STATUS")
	status.Set("media_id", mediaID)
	_, err := httputil.Retry(ctx, c.log, policy, "media/STATUS", func(ctx context.Context) (struct{}, error) {
		resp, err := c.do(ctx, request{name: "media/STATUS", method: http.MethodGet, url: uploadBase + "?" + status.Encode()})
		if err != nil {
			return struct{}{}, retryable(err)
		}
		info := resp.JSON().Get("processing_info")
		switch state := info.Get("state").String(); state {
		case "", "succeeded":
			return struct{}{}, nil
		case "failed":
			msg := info.Get("error.message").String()
			if msg == "" {
				msg = "processing failed"
			}
			return struct{}{}, httputil.Permanent(fmt.Errorf("media %s: %s", mediaID, msg))
		default:
			return struct{}{}, fmt.Errorf("media %s %s (%d%%): %w", mediaID, state, info.Get("progress_percent").Int(), ErrMediaProcessing)
		}
	})
	return err
}

func (c *Client) setAltText(ctx context.Context, mediaID, alt string) error {
	payload, err := json.Marshal(map[string]any{
		"media_id": mediaID,
		"alt_text": map[string]string{"text": alt},
	})
	if err != nil {
		return fmt.Errorf("encoding alt text: %w", err)
	}
	policy := c.retries.PolicyFor(httputil.PolicyUpload)
	_, err = httputil.Retry(ctx, c.log, policy, "media/metadata", func(ctx context.Context) (struct{}, error) {
		_, err := c.do(ctx, request{
			name:        "media/metadata",
			method:      http.MethodPost,
			url:         apiBase + "/1.1/media/metadata/create.json",
			body:        payload,
			contentType: "application/json",
		})
		return struct{}{}, retryable(err)
	})
	if err != nil {
		return fmt.Errorf("media alt text: %w", err)
	}
	return nil
}

func mediaCategory(mt string) (string, error) {
	switch {
	case mt == "image/gif":
		return categoryGIF, nil
	case mt == "image/jpeg", mt == "image/png", mt == "image/webp":
		return categoryImage, nil
	case strings.HasPrefix(mt, "video/"):
		return categoryVideo, nil
	}
	return "", fmt.Errorf("media upload: unsupported type %q", mt)
}

func formRequest(name, endpoint string, form url.Values) request {
	return request{
		name:        name,
		method:      http.MethodPost,
		url:         endpoint,
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
}

func appendRequest(mediaID string, segment int, chunk []byte) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{{"command", "APPEND"}, {"media_id", mediaID}, {"segment_index", strconv.Itoa(segment)}}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return request{}, fmt.Errorf("building APPEND form: %w", err)
		}
	}
	part, err := w.CreateFormFile("media", "blob")
	if err != nil {
		return request{}, fmt.Errorf("building APPEND form: %w", err)
	}
	if _, err := part.Write(chunk); err != nil {
		return request{}, fmt.Errorf("building APPEND form: %w", err)
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("building APPEND form: %w", err)
	}
	return request{
		name:        "media/APPEND",
		method:      http.MethodPost,
		url:         uploadBase,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, nil
}
