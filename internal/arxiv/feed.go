package arxiv

import (
	"encoding/xml"
	"strings"
)

// Atom feed structures for arXiv API

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// parseAtomEntry converts an atom entry to a Paper.
func parseAtomEntry(entry atomEntry) Paper {
	// http://arxiv.org/abs/2301.00001v1 -> 2301.00001v1
	entryID := strings.TrimSpace(entry.ID)
	arxivID := entryID
	if idx := strings.LastIndex(entryID, "/abs/"); idx >= 0 {
		arxivID = entryID[idx+5:]
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		categories = append(categories, c.Term)
	}

	var pdfURL string
	if link := entry.alternateLink(); link != "" {
		pdfURL = strings.Replace(link, "/abs/", "/pdf/", 1)
	}

	return Paper{
		ID:            arxivID,
		ArxivID:       arxivID,
		Title:         collapseNewlines(entry.Title),
		Authors:       authors,
		Abstract:      collapseNewlines(entry.Summary),
		Categories:    categories,
		PublishedDate: strings.TrimSpace(entry.Published),
		PDFURL:        pdfURL,
		SourceURL:     entryID,
	}
}

// alternateLink returns the abstract page link of the entry
func (e atomEntry) alternateLink() string {
	for _, l := range e.Links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(e.Links) > 0 {
		return e.Links[0].Href
	}
	return ""
}

func collapseNewlines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
