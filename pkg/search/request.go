package search

import (
	"fmt"
	"strings"
)

// Mode selects which result tab to search
type Mode string

const (
	ModeTop    Mode = "Top"
	ModeLatest Mode = "Latest"
	ModeMedia  Mode = "Media"
)

// DefaultMinimumItems is the item target used by DefaultRequest
const DefaultMinimumItems = 30

// ParseMode converts a mode name, case-insensitively. An empty name means Top.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return ModeTop, nil
	case "latest":
		return ModeLatest, nil
	case "media":
		return ModeMedia, nil
	default:
		return "", fmt.Errorf("unknown search mode %q (want Top, Latest or Media)", s)
	}
}

// String returns the mode name
func (m Mode) String() string {
	return string(m)
}

// Request describes one search
type Request struct {
	Query        string
	Mode         Mode
	MinimumItems int
}

// NewRequest validates and builds a Request
func NewRequest(query string, mode Mode, minimumItems int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query must not be empty")
	}
	parsed, err := ParseMode(string(mode))
	if err != nil {
		return Request{}, err
	}
	if minimumItems < 0 {
		return Request{}, fmt.Errorf("minimum items must be >= 0, got %d", minimumItems)
	}

	return Request{Query: query, Mode: parsed, MinimumItems: minimumItems}, nil
}

// DefaultRequest searches the Top tab for at least 30 items
func DefaultRequest(query string) Request {
	return Request{Query: query, Mode: ModeTop, MinimumItems: DefaultMinimumItems}
}
