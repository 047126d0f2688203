package acquire

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LabelFromURL derives a readable chapter label from the last two path
// segments of u, e.g. ".../Book_1/Chapter_1" becomes "Book 1 Chapter 1".
func LabelFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	cleaned := strings.Trim(path.Clean("/"+u.Path), "/")
	if cleaned == "" {
		return u.Host
	}
	segments := strings.Split(cleaned, "/")
	if len(segments) > 2 {
		segments = segments[len(segments)-2:]
	}
	words := make([]string, 0, len(segments))
	for _, seg := range segments {
		if unescaped, err := url.PathUnescape(seg); err == nil {
			seg = unescaped
		}
		seg = strings.TrimSuffix(seg, path.Ext(seg))
		seg = strings.NewReplacer("_", " ", "-", " ").Replace(seg)
		if seg = strings.TrimSpace(seg); seg != "" {
			words = append(words, seg)
		}
	}
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}
