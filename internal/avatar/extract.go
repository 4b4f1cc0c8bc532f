package avatar

import (
	"fmt"
	"regexp"
)

var avatarURLPattern = regexp.MustCompile(
	`https://firebasestorage\.googleapis\.com/v0/b/battlefy-2f59d\.appspot\.com/o/user-imgs%2F[a-f0-9]+%2F\d+\.(?:png|jpg|jpeg)\?alt=media&token=[a-f0-9-]+`,
)

var userIDPattern = regexp.MustCompile(`user-imgs%2F([a-f0-9]+)%2F`)

// ExtractAvatarURLs returns the distinct avatar urls in text, in first-seen order.
func ExtractAvatarURLs(text string) []string {
	matches := avatarURLPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, item := range matches {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// AvatarFileName names the local file for url. seq is 1-based and only used
// when the url carries no user id.
func AvatarFileName(url string, seq int) string {
	if groups := userIDPattern.FindStringSubmatch(url); len(groups) == 2 {
		return "avatar_" + groups[1] + ".jpg"
	}
	return fmt.Sprintf("avatar_%03d.jpg", seq)
}
