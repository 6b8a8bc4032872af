package policy

import "fmt"

// Decision is the outcome of a mutation check. When Allowed is false the
// caller redirects to RedirectTo instead of reporting an error.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// AuthorizeMutation allows the change only when the requester wrote the
// object. Anonymous requesters (id 0) are never allowed.
func AuthorizeMutation(authorID, requesterID uint, redirect string) Decision {
	if requesterID != 0 && authorID == requesterID {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: redirect}
}

// PostDetailPath is the read view of a post.
func PostDetailPath(postID uint) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

// ProfilePath is the profile feed of a user.
func ProfilePath(username string) string {
	return fmt.Sprintf("/profile/%s/", username)
}
