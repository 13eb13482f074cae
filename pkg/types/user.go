// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// UserRecord is the flat view of a GraphQL user result. It is built from
// either the legacy or the newer "core" schema shape.
type UserRecord struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name" yaml:"name"`

	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	FollowersCount *int   `json:"followers_count,omitempty" yaml:"followers_count,omitempty"`
	FollowingCount *int   `json:"following_count,omitempty" yaml:"following_count,omitempty"`

	IsBlueVerified  bool   `json:"is_blue_verified" yaml:"is_blue_verified"`
	ProfileImageURL string `json:"profile_image_url,omitempty" yaml:"profile_image_url,omitempty"`
	CreatedAt       string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// UserPage is one page of a cursor-paginated user list.
type UserPage struct {
	Users      []UserRecord `json:"users" yaml:"users"`
	NextCursor string       `json:"next_cursor,omitempty" yaml:"next_cursor,omitempty"`
}
