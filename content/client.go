package content

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/showdeck/showdeck/cards"
	"github.com/showdeck/showdeck/utils"
)

// Category mirrors one entry of the backend's categories endpoint; the
// response order is the admin-defined filter order and must be preserved.
type Category struct {
	Name string `json:"name"`
}

// SiteConfig is the page-level config document. Only the fields the media
// layer cares about are decoded.
type SiteConfig struct {
	LogoText              string   `json:"logo_text"`
	HeroTitle             string   `json:"hero_title"`
	HeroSubtitle          []string `json:"hero_subtitle"`
	Location              string   `json:"location"`
	ShowAllCategoryFilter bool     `json:"show_all_category_filter"`
}

// Client reads the admin backend's JSON endpoints. It never writes anything.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: utils.NewHTTPClient(),
	}
}

func (c *Client) FetchProjects(sortBy string) ([]cards.Project, error) {
	var projects []cards.Project
	path := fmt.Sprintf("/api/projects?sort_by=%s", url.QueryEscape(sortBy))
	if err := c.getJSON(path, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) FetchCategories() ([]Category, error) {
	var categories []Category
	if err := c.getJSON("/api/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) FetchConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := c.getJSON("/api/config", &cfg); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *Client) getJSON(path string, out any) error {
	req, err := http.NewRequest("GET", c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("content backend returned %s for %s", res.Status, path)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
