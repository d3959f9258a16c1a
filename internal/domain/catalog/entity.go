// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound is returned when the catalog has no game for a slug
	ErrNotFound = errors.New("catalog: game not found")
	// ErrUpstream wraps failures of the remote catalog API
	ErrUpstream = errors.New("catalog: upstream request failed")
)

// SummaryLimit is the number of runes kept in a detail summary
const SummaryLimit = 800

// GenreRef is the genre label carried on list items and snapshots
type GenreRef struct {
	Name string `json:"name" firestore:"name"`
}

// Genre is an entry of the genre taxonomy
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Item is a game as returned by catalog listings
type Item struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	BackgroundImage string     `json:"background_image"`
	Rating          float64    `json:"rating"`
	Genres          []GenreRef `json:"genres"`
}

// Requirements holds platform system requirements
type Requirements struct {
	Minimum     string `json:"minimum,omitempty"`
	Recommended string `json:"recommended,omitempty"`
}

// Platform is one platform a game ships on
type Platform struct {
	Name         string       `json:"name"`
	Requirements Requirements `json:"requirements"`
}

// Detail is the full record of a single game
type Detail struct {
	Item
	Description    string     `json:"description"`
	DescriptionRaw string     `json:"description_raw"`
	Summary        string     `json:"summary"`
	Released       string     `json:"released"`
	Platforms      []Platform `json:"platforms"`
}

// Review is a user review of a game
type Review struct {
	Username string  `json:"username"`
	Rating   float64 `json:"rating"`
	Text     string  `json:"text"`
}

// Page is one page of a game listing
type Page struct {
	Count      int    `json:"count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Results    []Item `json:"results"`
}

// ListParams filters a game listing
type ListParams struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Genres   string `form:"genres"`
	Search   string `form:"search"`
}

// Normalize clamps paging values to the given defaults
func (p ListParams) Normalize(defaultSize, maxSize int) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	p.Genres = strings.TrimSpace(p.Genres)
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// TotalPages returns the number of pages needed for count results
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Summarize truncates a description to SummaryLimit runes, appending "..."
func Summarize(description string) string {
	if utf8.RuneCountInString(description) <= SummaryLimit {
		return description
	}
	runes := []rune(description)
	return string(runes[:SummaryLimit]) + "..."
}
