// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/tidwall/gjson"

	"github.com/pdiddy/chirp/pkg/types"
)

// User extracts a UserRecord from a GraphQL user result. Both the legacy
// shape and the newer "core"/"avatar" shape are read; when both carry a
// username or name the legacy value wins. The second return is false when
// no username or id can be found.
func User(r gjson.Result) (types.UserRecord, bool) {
	if !r.IsObject() {
		return types.UserRecord{}, false
	}
	u := types.UserRecord{
		ID:              firstString(r, "rest_id", "legacy.id_str"),
		Username:        firstString(r, "legacy.screen_name", "core.screen_name"),
		Name:            firstString(r, "legacy.name", "core.name"),
		Description:     firstString(r, "legacy.description", "profile_bio.description"),
		FollowersCount:  optInt(r, "legacy.followers_count", "relationship_counts.followers"),
		FollowingCount:  optInt(r, "legacy.friends_count", "relationship_counts.following"),
		IsBlueVerified:  r.Get("is_blue_verified").Bool() || r.Get("legacy.verified").Bool(),
		ProfileImageURL: firstString(r, "legacy.profile_image_url_https", "avatar.image_url"),
		CreatedAt:       firstString(r, "legacy.created_at", "core.created_at"),
	}
	if u.ID == "" && u.Username == "" {
		return types.UserRecord{}, false
	}
	return u, true
}

// RESTUser extracts a UserRecord from a v1.1 REST user object such as the
// verify_credentials response, whose fields match the GraphQL legacy block.
func RESTUser(r gjson.Result) (types.UserRecord, bool) {
	if !r.IsObject() {
		return types.UserRecord{}, false
	}
	return User(gjson.Parse(`{"legacy":` + r.Raw + `}`))
}
