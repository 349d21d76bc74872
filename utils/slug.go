package utils

import "strings"

const DefaultSlug = "gallery"

// Slugify turns free text into a URL-safe identifier: lowercase,
// [a-z0-9-] only, runs of anything else become a single hyphen, no
// leading/trailing hyphens. An input that leaves nothing behind falls
// back to DefaultSlug.
func Slugify(in string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading hyphens
	for _, c := range strings.ToLower(strings.TrimSpace(in)) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return DefaultSlug
	}
	return slug
}

// SlugToDisplayName is the reverse-ish mapping used when a gallery is
// created without an explicit name: "my-new-gallery" -> "My New Gallery"
func SlugToDisplayName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
