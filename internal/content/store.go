// Package content resolves slugs within content directories to pages and
// produces recommendation lists and the RSS feed.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/homestead/homestead-go/internal/model"
)

// ErrPageNotFound is the typed not-found outcome of slug resolution. Callers
// render a not-found view; this is never an internal fault.
var ErrPageNotFound = errors.New("no content page for slug")

// BlogDir is the content directory recommendations are drawn from.
const BlogDir = "blog"

// DefaultRecommendations is how many related items a list carries at most.
const DefaultRecommendations = 3

var frontmatterDelimiter = []byte("---")

type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BannerURL   string `yaml:"bannerUrl"`
	BannerAlt   string `yaml:"bannerAlt"`
	Date        string `yaml:"date"`
}

// Store reads content entries from a directory tree laid out as
// <root>/<dir>/<slug>.md, each file carrying a YAML frontmatter block.
type Store struct {
	root string
}

// NewStore creates a content Store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Resolve looks up one slug within a content directory. An unknown slug
// yields ErrPageNotFound.
func (s *Store) Resolve(dir, slug string) (*model.Page, error) {
	if !validSlug(slug) || !validSlug(dir) {
		return nil, ErrPageNotFound
	}

	raw, err := os.ReadFile(filepath.Join(s.root, dir, slug+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("reading content file: %w", err)
	}

	fm, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s/%s: %w", dir, slug, err)
	}

	return &model.Page{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		BannerURL:   fm.BannerURL,
		BannerAlt:   fm.BannerAlt,
		Date:        parseDate(fm.Date),
		Body:        body,
	}, nil
}

// List returns the summaries of every entry in a content directory, newest
// first.
func (s *Store) List(dir string) ([]model.ListItem, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading content directory: %w", err)
	}

	var items []model.ListItem
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		slug := strings.TrimSuffix(name, ".md")
		page, err := s.Resolve(dir, slug)
		if err != nil {
			// A single unparsable file does not take down the listing.
			continue
		}
		items = append(items, model.ListItem{
			Slug:        page.Slug,
			Title:       page.Title,
			Description: page.Description,
			Date:        page.Date,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

// Recommendations returns up to n blog items in random order. It never
// depends on whether a surrounding slug resolution succeeded, so not-found
// pages can still show related content.
func (s *Store) Recommendations(n int) []model.ListItem {
	items, err := s.List(BlogDir)
	if err != nil || len(items) == 0 {
		return nil
	}

	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func splitFrontmatter(raw []byte) (frontmatter, string, error) {
	var fm frontmatter

	trimmed := bytes.TrimLeft(raw, "\n\r ")
	if !bytes.HasPrefix(trimmed, frontmatterDelimiter) {
		// No frontmatter block; the whole file is body.
		return fm, string(raw), nil
	}

	rest := trimmed[len(frontmatterDelimiter):]
	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelimiter...))
	if end < 0 {
		return fm, "", errors.New("unterminated frontmatter block")
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", fmt.Errorf("frontmatter: %w", err)
	}

	body := rest[end+1+len(frontmatterDelimiter):]
	return fm, strings.TrimLeft(string(body), "\n\r"), nil
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func validSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
