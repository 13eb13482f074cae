// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type uploadServer struct {
	mu          sync.Mutex
	commands    []string
	appended    bytes.Buffer
	statusCalls int
	altText     string
	finalState  string
}

func (s *uploadServer) handle(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if r.URL.Path == "/i/api/1.1/media/metadata/create.json" {
			var body struct {
				MediaID string `json:"media_id"`
				AltText struct {
					Text string `json:"text"`
				} `json:"alt_text"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "m1", body.MediaID)
			s.altText = body.AltText.Text
			writeJSON(w, 200, `{}`)
			return
		}

		if r.Method == http.MethodGet {
			s.commands = append(s.commands, r.URL.Query().Get("command"))
			s.statusCalls++
			if s.statusCalls < 2 {
				writeJSON(w, 200, `{"media_id_string":"m1","processing_info":{"state":"in_progress","progress_percent":40}}`)
				return
			}
			writeJSON(w, 200, `{"media_id_string":"m1","processing_info":{"state":`+`"`+s.finalState+`"`+`,"error":{"message":"bad codec"}}}`)
			return
		}

		if err := r.ParseMultipartForm(8 << 20); err != nil {
			assert.NoError(t, r.ParseForm())
		}
		cmd := r.FormValue("command")
		s.commands = append(s.commands, cmd)
		switch cmd {
		case "INIT":
			assert.Equal(t, "image/png", r.FormValue("media_type"))
			assert.Equal(t, "tweet_image", r.FormValue("media_category"))
			writeJSON(w, 200, `{"media_id_string":"m1"}`)
		case "APPEND":
			f, _, err := r.FormFile("media")
			if assert.NoError(t, err) {
				_, _ = io.Copy(&s.appended, f)
				f.Close()
			}
			w.WriteHeader(http.StatusNoContent)
		case "FINALIZE":
			writeJSON(w, 200, `{"media_id_string":"m1","processing_info":{"state":"pending","check_after_secs":1}}`)
		default:
			t.Errorf("unexpected command %q", cmd)
		}
	}
}

func TestUploadMedia(t *testing.T) {
	srv := &uploadServer{finalState: "succeeded"}
	c, _ := newTestClient(t, srv.handle(t))

	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{7}, appendChunkSize+10)...)
	m, err := c.UploadMedia(context.Background(), data, MediaOptions{AltText: "a cat"})
	require.NoError(t, err)

	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, []string{"INIT", "APPEND", "APPEND", "FINALIZE", "STATUS", "STATUS"}, srv.commands)
	assert.Equal(t, data, srv.appended.Bytes())
	assert.Equal(t, "a cat", srv.altText)
}

func TestUploadMediaProcessingFailed(t *testing.T) {
	srv := &uploadServer{finalState: "failed"}
	c, _ := newTestClient(t, srv.handle(t))

	_, err := c.UploadMedia(context.Background(), pngHeader, MediaOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad codec")
	assert.Equal(t, 2, srv.statusCalls)
}

func TestUploadFileRejectsUnknownType(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := c.UploadFile(context.Background(), path, MediaOptions{})
	assert.ErrorContains(t, err, "unsupported type")
	assert.Empty(t, rec.paths)
}

func TestMediaCategory(t *testing.T) {
	tests := map[string]string{
		"image/gif":  categoryGIF,
		"image/jpeg": categoryImage,
		"video/mp4":  categoryVideo,
	}
	for mt, want := range tests {
		got, err := mediaCategory(mt)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
