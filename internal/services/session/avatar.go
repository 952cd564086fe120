package session

import (
	"net/url"
	"strings"
)

const avatarBaseURL = "https://ui-avatars.com/api/"

// DefaultAvatarURL builds the generated initials avatar for a new account.
// Spaces are escaped as %20 to match browser URI component encoding.
func DefaultAvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return avatarBaseURL + "?name=" + escaped + "&background=f97316&color=fff"
}
