package snapshot

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidPreset = errors.New("invalid snapshot preset")

var presetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Preset is a named dashboard state: the query string the page is opened
// with. An empty query captures the layout defaults.
type Preset struct {
	Name  string
	Query url.Values
}

// DefaultPreset captures the dashboard as a fresh visitor sees it.
var DefaultPreset = Preset{Name: "default", Query: url.Values{}}

// ParsePreset reads "name" or "name:query", e.g.
// "williamsburg:neighbourhood=Williamsburg&room_type=Private+room".
func ParsePreset(s string) (Preset, error) {
	name, query, _ := strings.Cut(strings.TrimSpace(s), ":")
	if !presetName.MatchString(name) {
		return Preset{}, fmt.Errorf("%w: name %q must match %s", ErrInvalidPreset, name, presetName)
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: %q: %v", ErrInvalidPreset, s, err)
	}
	return Preset{Name: name, Query: q}, nil
}

// ParsePresets parses each argument and rejects duplicate names.
func ParsePresets(args []string) ([]Preset, error) {
	if len(args) == 0 {
		return []Preset{DefaultPreset}, nil
	}
	seen := make(map[string]struct{}, len(args))
	presets := make([]Preset, 0, len(args))
	for _, arg := range args {
		p, err := ParsePreset(arg)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPreset, p.Name)
		}
		seen[p.Name] = struct{}{}
		presets = append(presets, p)
	}
	return presets, nil
}

// PresetURL is the page address for p under base.
func PresetURL(base string, p Preset) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("snapshot: base url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("snapshot: base url %q: scheme must be http or https", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawQuery = p.Query.Encode()
	return u.String(), nil
}
