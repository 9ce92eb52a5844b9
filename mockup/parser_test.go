package mockup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParse_OrdersTokens(t *testing.T) {
	t.Parallel()
	raw := "vd2:video/demo.mp4 img1:https://example.com/shot.png yt3:https://youtu.be/abc123"
	want := []Token{
		{Kind: KindImage, Order: 1, Src: "https://example.com/shot.png"},
		{Kind: KindVideo, Order: 2, Src: "video/demo.mp4"},
		{Kind: KindYouTube, Order: 3, Src: "https://youtu.be/abc123"},
	}
	got := Parse(raw)
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestParse_TiesBreakOnKindName(t *testing.T) {
	t.Parallel()
	// both carry order 1 so the alphabetical kind name decides
	got := Parse("yt1:https://youtu.be/abc img1:https://example.com/a.png")
	want := []Token{
		{Kind: KindImage, Order: 1, Src: "https://example.com/a.png"},
		{Kind: KindYouTube, Order: 1, Src: "https://youtu.be/abc"},
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestParse_KeysAreCaseInsensitive(t *testing.T) {
	t.Parallel()
	got := Parse("IMG1:https://example.com/a.png Yt2:https://youtu.be/abc")
	want := []Token{
		{Kind: KindImage, Order: 1, Src: "https://example.com/a.png"},
		{Kind: KindYouTube, Order: 2, Src: "https://youtu.be/abc"},
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestParse_DriveVideoBeatsDriveEmbed(t *testing.T) {
	t.Parallel()
	got := Parse("gdv1:https://drive.google.com/file/d/xyz/view gd2:https://drive.google.com/file/d/abc/view")
	want := []Token{
		{Kind: KindDriveVideo, Order: 1, Src: "https://drive.google.com/file/d/xyz/view"},
		{Kind: KindDriveEmbed, Order: 2, Src: "https://drive.google.com/file/d/abc/view"},
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestParse_DropsMalformedTokens(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"whitespace only", "   \n\t  "},
		{"unknown key", "zz1:https://example.com"},
		{"missing order", "img:https://example.com"},
		{"missing value", "img1:"},
		{"plain text", "coming soon"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, Parse(tc.raw))
		})
	}
}

func TestParse_KeepsDuplicateOrders(t *testing.T) {
	t.Parallel()
	got := Parse("img1:a.png img1:b.png")
	want := []Token{
		{Kind: KindImage, Order: 1, Src: "a.png"},
		{Kind: KindImage, Order: 1, Src: "b.png"},
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestKind_Playable(t *testing.T) {
	t.Parallel()
	assert.False(t, KindImage.Playable())
	assert.False(t, KindUnknown.Playable())
	for _, k := range []Kind{KindYouTube, KindVideo, KindEmbed, KindDriveEmbed, KindDriveVideo} {
		assert.True(t, k.Playable(), k.String())
	}
}
