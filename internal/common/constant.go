// Package common contains shared constants and error types used across
// myday components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// owner access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Remote collection names. Every owner has one sub-collection of each kind
// plus a single profile document.
const (
	CollectionDiaries     = "diaries"
	CollectionSocialLinks = "social_media_links"
	CollectionUsers       = "users"
)

// KnownCollection reports whether name is a replicated record collection.
func KnownCollection(name string) bool {
	switch name {
	case CollectionDiaries, CollectionSocialLinks:
		return true
	}
	return false
}
