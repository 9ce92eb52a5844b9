package render

import (
	"fmt"
	"net/url"
	"regexp"
)

var driveFilePattern = regexp.MustCompile(`/file/d/([^/?#]+)`)

// driveFileID normalises a Drive value to its file ID. The admin UI never
// constrained the field, so values arrive as bare IDs, share URLs
// (/file/d/<id>/view) or open URLs (?id=<id>).
func driveFileID(v string) string {
	if m := driveFilePattern.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	if u, err := url.Parse(v); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}
	return v
}

func drivePreviewURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", url.PathEscape(id))
}

func driveStreamURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", url.QueryEscape(id))
}
