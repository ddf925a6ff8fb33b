package model

import "time"

// Page is one resolved content entry.
type Page struct {
	Slug        string
	Title       string
	Description string
	BannerURL   string
	BannerAlt   string
	Date        time.Time
	Body        string
}

// ListItem is the summary form of a content entry, used for recommendation
// lists and the RSS feed.
type ListItem struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
}
