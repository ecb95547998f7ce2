// Package endpoints maps logical backend operations to URLs.
package endpoints

import (
	"fmt"
	"net/url"
	"strings"
)

// Registry builds backend URLs from a fixed origin
type Registry struct {
	base string
}

// New validates baseURL and returns a registry rooted at it
func New(baseURL string) (Registry, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Registry{}, fmt.Errorf("endpoints: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Registry{}, fmt.Errorf("endpoints: base url %q must be absolute http(s)", baseURL)
	}
	return Registry{base: strings.TrimRight(baseURL, "/")}, nil
}

// Base returns the configured origin without a trailing slash
func (r Registry) Base() string { return r.base }

func (r Registry) Login() string    { return r.base + "/login/" }
func (r Registry) Register() string { return r.base + "/register/" }
func (r Registry) Items() string    { return r.base + "/items/" }

func (r Registry) Item(itemID string) string {
	return r.base + "/items/" + url.PathEscape(itemID)
}

func (r Registry) PlaceBid(itemID string) string {
	return r.base + "/items/" + url.PathEscape(itemID) + "/bid/"
}
