package mockup

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind is the closed set of media kinds a mockup token can describe.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindYouTube
	KindVideo
	KindEmbed
	KindDriveEmbed
	KindDriveVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindYouTube:
		return "youtube"
	case KindVideo:
		return "video"
	case KindEmbed:
		return "embed"
	case KindDriveEmbed:
		return "drive_embed"
	case KindDriveVideo:
		return "drive_video"
	default:
		return "unknown"
	}
}

// Playable reports whether a rendered item of this kind owns a live playback
// handle at some point in its life.
func (k Kind) Playable() bool {
	switch k {
	case KindYouTube, KindVideo, KindEmbed, KindDriveEmbed, KindDriveVideo:
		return true
	default:
		return false
	}
}

// Token is one <key><n>:<value> unit of a project's mockup content.
type Token struct {
	Kind  Kind
	Order int
	Src   string
}

// gdv must be tried before gd or a drive video token would never match
var tokenPattern = regexp.MustCompile(`(?i)^(img|yt|vd|em|gdv|gd)(\d+):(.+)$`)

var kindByKey = map[string]Kind{
	"img": KindImage,
	"yt":  KindYouTube,
	"vd":  KindVideo,
	"em":  KindEmbed,
	"gd":  KindDriveEmbed,
	"gdv": KindDriveVideo,
}

// Parse splits raw mockup content on whitespace and returns every token that
// matches the numbered mini-language, sorted by (order, kind name). Anything
// that doesn't match is dropped silently so future token keys degrade to
// "ignored" rather than breaking existing pages. An empty or whitespace-only
// input yields an empty list. Parse never fails.
func Parse(raw string) []Token {
	var tokens []Token
	for _, field := range strings.Fields(raw) {
		m := tokenPattern.FindStringSubmatch(field)
		if m == nil {
			continue
		}
		kind, ok := kindByKey[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		order, err := strconv.Atoi(m[2])
		if err != nil {
			// only reachable via absurdly long digit runs
			continue
		}
		tokens = append(tokens, Token{Kind: kind, Order: order, Src: m[3]})
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Order != tokens[j].Order {
			return tokens[i].Order < tokens[j].Order
		}
		return tokens[i].Kind.String() < tokens[j].Kind.String()
	})
	return tokens
}
