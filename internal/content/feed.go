package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/homestead/homestead-go/internal/model"
)

// RenderRSS builds the blog RSS document. Titles and descriptions are
// CDATA-wrapped; each item's guid is the blog base URL plus the slug.
func RenderRSS(baseURL string, items []model.ListItem) string {
	blogURL := strings.TrimSuffix(baseURL, "/") + "/blog"

	var b strings.Builder
	fmt.Fprintf(&b, `<rss xmlns:blogChannel="%s" version="2.0">`+"\n", blogURL)
	b.WriteString("<channel>\n")
	b.WriteString("<title>Homestead Blog</title>\n")
	fmt.Fprintf(&b, "<link>%s</link>\n", blogURL)
	b.WriteString("<description>The Homestead Blog</description>\n")
	b.WriteString("<language>en-us</language>\n")
	b.WriteString("<generator>homestead</generator>\n")
	b.WriteString("<ttl>40</ttl>\n")

	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "Untitled Post"
		}
		description := item.Description
		if description == "" {
			description = "This post is... indescribable"
		}
		date := item.Date
		if date.IsZero() {
			date = time.Now()
		}

		b.WriteString("<item>\n")
		fmt.Fprintf(&b, "<title>%s</title>\n", cdata(title))
		fmt.Fprintf(&b, "<description>%s</description>\n", cdata(description))
		fmt.Fprintf(&b, "<pubDate>%s</pubDate>\n", date.Format("2006-01-02"))
		fmt.Fprintf(&b, "<guid>%s/%s</guid>\n", blogURL, item.Slug)
		b.WriteString("</item>\n")
	}

	b.WriteString("</channel>\n")
	b.WriteString("</rss>")
	return b.String()
}

func cdata(s string) string {
	return "<![CDATA[" + s + "]]>"
}
