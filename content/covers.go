package content

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/showdeck/showdeck/utils"
)

type cover struct {
	location string
	colours  []string
}

// Covers caches external card images on local storage so repeated refreshes
// don't refetch them, and remembers the accent colours pulled from each.
type Covers struct {
	storageDir string

	mu    sync.Mutex
	known map[string]cover
}

func NewCovers(storageDir string) *Covers {
	return &Covers{
		storageDir: storageDir,
		known:      map[string]cover{},
	}
}

// Ensure fetches and stores the image once per source URL. Failures return
// zero values; a card without a cover is fine, a broken refresh is not.
func (c *Covers) Ensure(imageURL string) (string, []string) {
	c.mu.Lock()
	if hit, ok := c.known[imageURL]; ok {
		c.mu.Unlock()
		return hit.location, hit.colours
	}
	c.mu.Unlock()

	body, extension, colours, err := utils.ExtractImageContent(imageURL)
	if err != nil {
		slog.Warn("Failed to fetch card cover", slog.String("url", imageURL), slog.Any("error", err))
		return "", nil
	}
	if extension == "" {
		slog.Warn("Card cover has unsupported content type", slog.String("url", imageURL))
		return "", nil
	}

	location, guid := utils.BytesToGUIDLocation(body, extension)
	path := fmt.Sprintf("%s/cover.%s.%s", c.storageDir, guid, extension)
	if err := os.WriteFile(path, body, 0644); err != nil {
		slog.Warn("Failed to store card cover", slog.String("path", path), slog.Any("error", err))
		return "", nil
	}

	c.mu.Lock()
	c.known[imageURL] = cover{location: location, colours: colours}
	c.mu.Unlock()

	return location, colours
}

// Load reads a stored cover back for the static route.
func (c *Covers) Load(guid string, extension string) (string, error) {
	img, err := os.ReadFile(fmt.Sprintf("%s/cover.%s.%s", c.storageDir, guid, extension))
	if err != nil {
		return "", err
	}
	return string(img), nil
}
