package mockup

import (
	"regexp"
	"strings"
)

// LegacyKind identifies which single-value mockup format a pre-token project
// record uses. The detection order is fixed and matters: older admin entries
// exist for every one of these shapes.
type LegacyKind int

const (
	LegacyNone LegacyKind = iota
	LegacySlideshow
	LegacyExternalImage
	LegacySlideFolder
	LegacyLocalImage
	LegacyLocalVideo
	LegacyYouTube
	LegacyText
)

func (k LegacyKind) String() string {
	switch k {
	case LegacySlideshow:
		return "slideshow"
	case LegacyExternalImage:
		return "external_image"
	case LegacySlideFolder:
		return "slide_folder"
	case LegacyLocalImage:
		return "local_image"
	case LegacyLocalVideo:
		return "local_video"
	case LegacyYouTube:
		return "youtube"
	case LegacyText:
		return "text"
	default:
		return "none"
	}
}

// Legacy is the result of single-format detection. Slides is populated for
// LegacySlideshow only; Src carries the value for every other kind.
type Legacy struct {
	Kind   LegacyKind
	Src    string
	Slides []string
}

var slideshowPattern = regexp.MustCompile(`img\d+:(https?://\S+)`)

// DetectLegacy classifies raw mockup content that produced no numbered
// tokens. Matching is by string prefix in a fixed priority order, falling
// back to literal text so admin-entered content can never break a card.
func DetectLegacy(raw string) Legacy {
	content := strings.TrimSpace(raw)
	if content == "" {
		return Legacy{Kind: LegacyNone}
	}
	if strings.Contains(content, "img1:") {
		var slides []string
		for _, m := range slideshowPattern.FindAllStringSubmatch(content, -1) {
			slides = append(slides, strings.TrimSpace(m[1]))
		}
		if len(slides) > 0 {
			return Legacy{Kind: LegacySlideshow, Slides: slides}
		}
	}
	if strings.HasPrefix(content, "img:") {
		return Legacy{Kind: LegacyExternalImage, Src: content[len("img:"):]}
	}
	if strings.HasPrefix(content, "slides/") {
		return Legacy{Kind: LegacySlideFolder, Src: strings.SplitN(content, "/", 3)[1]}
	}
	if strings.HasPrefix(content, "image/") {
		// some records carry a doubled prefix from an old admin bug
		return Legacy{Kind: LegacyLocalImage, Src: strings.Replace(content, "image/image/", "image/", 1)}
	}
	if strings.HasPrefix(content, "video/") {
		return Legacy{Kind: LegacyLocalVideo, Src: strings.Replace(content, "video/video/", "video/", 1)}
	}
	if strings.Contains(content, "youtube.com/watch") || strings.Contains(content, "youtu.be/") {
		return Legacy{Kind: LegacyYouTube, Src: content}
	}
	return Legacy{Kind: LegacyText, Src: content}
}
