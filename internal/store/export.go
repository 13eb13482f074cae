// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chirp/pkg/types"
)

// Snapshot is the full cache contents written by Export.
type Snapshot struct {
	ExportedAt string              `json:"exported_at" yaml:"exported_at"`
	Users      []types.UserRecord  `json:"users" yaml:"users"`
	Tweets     []types.TweetRecord `json:"tweets" yaml:"tweets"`
}

const exportLimit = 1000000

// Export writes every cached user and tweet to w as "yaml" or "json".
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	users, err := s.Users(ctx, UserQuery{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("querying users for export: %w", err)
	}
	tweets, err := s.Tweets(ctx, TweetQuery{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("querying tweets for export: %w", err)
	}
	snap := Snapshot{
		ExportedAt: now().Format("2006-01-02T15:04:05Z07:00"),
		Users:      users,
		Tweets:     tweets,
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
	return nil
}
