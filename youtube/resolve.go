package youtube

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Ref is a resolved YouTube reference. An empty VideoID means the input was
// not recognisable as YouTube and the caller should fall back to rendering
// the raw value as literal text. Start and End are clip bounds in seconds,
// nil when absent.
type Ref struct {
	VideoID string
	Start   *int
	End     *int
}

// Resolve accepts either a raw URL or a full iframe tag (in which case the
// src attribute is resolved instead). Three URL shapes are recognised:
// *.youtube.com/watch?v=ID, *.youtube.com/embed/ID and *youtu.be/ID.
// Resolve never fails; unrecognisable input yields a zero Ref.
func Resolve(input string) Ref {
	input = strings.TrimSpace(input)
	if input == "" {
		return Ref{}
	}
	if strings.Contains(input, "<iframe") {
		src, ok := iframeSrc(input)
		if !ok {
			return Ref{}
		}
		input = src
	}

	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return Ref{}
	}

	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == "youtu.be" || strings.HasSuffix(host, ".youtu.be"):
		id = firstPathSegment(u.Path)
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if strings.HasPrefix(u.Path, "/watch") {
			id = u.Query().Get("v")
		} else if strings.HasPrefix(u.Path, "/embed/") {
			id = firstPathSegment(strings.TrimPrefix(u.Path, "/embed"))
		}
	}
	if id == "" {
		return Ref{}
	}

	q := u.Query()
	start := q.Get("start")
	if start == "" {
		start = q.Get("t")
	}
	return Ref{
		VideoID: id,
		Start:   parseSeconds(start),
		End:     parseSeconds(q.Get("end")),
	}
}

// EmbedURL builds the embedded player URL for a resolved reference,
// propagating clip bounds as start/end parameters.
func EmbedURL(ref Ref) string {
	v := url.Values{}
	if ref.Start != nil {
		v.Set("start", strconv.Itoa(*ref.Start))
	}
	if ref.End != nil {
		v.Set("end", strconv.Itoa(*ref.End))
	}
	u := fmt.Sprintf("https://www.youtube.com/embed/%s", url.PathEscape(ref.VideoID))
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}

// ThumbnailURL returns the static thumbnail used for placeholder renders.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", url.PathEscape(videoID))
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// parseSeconds reads a clip bound query value, tolerating the "30s" unit
// suffix YouTube share links attach.
func parseSeconds(v string) *int {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(strings.TrimSuffix(v, "s"), "S")
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func iframeSrc(markup string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", false
	}
	src, ok := doc.Find("iframe").First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", false
	}
	return strings.TrimSpace(src), true
}
