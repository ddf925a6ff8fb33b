package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEntry(t *testing.T, root, dir, slug, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, dir, slug+".md"), []byte(contents), 0o644))
}

const samplePost = `---
title: Testing Patterns
description: How I test things.
bannerUrl: /images/testing.png
bannerAlt: a keyboard
date: 2021-05-27
---
Write tests. Not too many. Mostly integration.
`

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "blog", "testing-patterns", samplePost)

	store := NewStore(root)
	page, err := store.Resolve("blog", "testing-patterns")
	require.NoError(t, err)

	assert.Equal(t, "testing-patterns", page.Slug)
	assert.Equal(t, "Testing Patterns", page.Title)
	assert.Equal(t, "How I test things.", page.Description)
	assert.Equal(t, "/images/testing.png", page.BannerURL)
	assert.Equal(t, "a keyboard", page.BannerAlt)
	assert.Equal(t, 2021, page.Date.Year())
	assert.Contains(t, page.Body, "Write tests.")
}

func TestResolveUnknownSlug(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Resolve("blog", "nope")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestResolveRejectsTraversal(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Resolve("blog", "../secrets")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestResolveWithoutFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "pages", "uses", "Just a plain body.\n")

	store := NewStore(root)
	page, err := store.Resolve("pages", "uses")
	require.NoError(t, err)

	assert.Empty(t, page.Title)
	assert.Contains(t, page.Body, "Just a plain body.")
}

func TestListSortsNewestFirst(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "blog", "older", "---\ntitle: Older\ndate: 2020-01-01\n---\nbody\n")
	writeEntry(t, root, "blog", "newer", "---\ntitle: Newer\ndate: 2021-01-01\n---\nbody\n")

	store := NewStore(root)
	items, err := store.List("blog")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "newer", items[0].Slug)
	assert.Equal(t, "older", items[1].Slug)
}

func TestListMissingDirIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	items, err := store.List("blog")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecommendationsBounded(t *testing.T) {
	root := t.TempDir()
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		writeEntry(t, root, "blog", slug, "---\ntitle: "+slug+"\ndate: 2021-01-01\n---\nbody\n")
	}

	store := NewStore(root)

	recs := store.Recommendations(3)
	assert.Len(t, recs, 3)

	// Fewer entries than requested yields all of them.
	recs = store.Recommendations(10)
	assert.Len(t, recs, 5)
}

func TestRecommendationsEmptyContent(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.Empty(t, store.Recommendations(3))
}
