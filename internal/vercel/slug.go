package vercel

import "strings"

const maxNameLength = 50

// SanitizeName turns a project name into a DNS-safe Vercel project slug:
// lowercase, every run of characters outside [a-z0-9] becomes one hyphen,
// no leading or trailing hyphen, at most 50 characters.
// "My Test Project!!! 2024" becomes "my-test-project-2024".
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if len(slug) > maxNameLength {
		slug = strings.TrimRight(slug[:maxNameLength], "-")
	}
	return slug
}
