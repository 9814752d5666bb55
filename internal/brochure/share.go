package brochure

import (
	"fmt"
	"net/url"
	"strings"
)

// ShareURL builds the platform specific share link for a viewer page. The
// "copy" platform returns the page url itself for the clipboard.
func ShareURL(platform, pageURL, title string) (string, error) {
	u := url.QueryEscape(pageURL)
	t := url.QueryEscape(title)
	switch strings.ToLower(platform) {
	case "facebook":
		return "https://www.facebook.com/sharer/sharer.php?u=" + u, nil
	case "twitter", "x":
		return "https://twitter.com/intent/tweet?url=" + u + "&text=" + t, nil
	case "linkedin":
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + u, nil
	case "whatsapp":
		return "https://wa.me/?text=" + url.QueryEscape(strings.TrimSpace(title+" "+pageURL)), nil
	case "email":
		return "mailto:?subject=" + url.PathEscape(title) + "&body=" + url.PathEscape(pageURL), nil
	case "copy":
		return pageURL, nil
	}
	return "", fmt.Errorf("unknown share platform %q", platform)
}
