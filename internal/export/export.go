// Package export renders saved-paper collections as BibTeX, CSV or plain text.
package export

import (
	"fmt"
	"strings"

	"github.com/paperswipe/backend/internal/models"
)

// Format is an export file format
type Format string

const (
	BibTeX Format = "bibtex"
	CSV    Format = "csv"
	Text   Format = "text"
)

// ParseFormat accepts bibtex, csv or text in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case BibTeX, CSV, Text:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the media type served for the format
func (f Format) ContentType() string {
	switch f {
	case BibTeX:
		return "application/x-bibtex"
	case CSV:
		return "text/csv"
	default:
		return "text/plain"
	}
}

// Filename returns the attachment name for the format
func (f Format) Filename() string {
	switch f {
	case BibTeX:
		return "papers.bib"
	case CSV:
		return "papers.csv"
	default:
		return "papers.txt"
	}
}

// Render formats papers in the given format
func Render(f Format, papers []models.SavedPaper) string {
	switch f {
	case BibTeX:
		return ToBibTeX(papers)
	case CSV:
		return ToCSV(papers)
	default:
		return ToText(papers)
	}
}

// ToBibTeX renders one @article entry per paper, separated by blank lines.
func ToBibTeX(papers []models.SavedPaper) string {
	entries := make([]string, 0, len(papers))
	for i := range papers {
		p := &papers[i]
		year := publishedYear(p.PublishedDate, "0000")

		var sb strings.Builder
		fmt.Fprintf(&sb, "@article{%s,\n", CitationKey(p))
		fmt.Fprintf(&sb, "  title = {%s},\n", p.Title)
		fmt.Fprintf(&sb, "  author = {%s},\n", strings.Join(p.AuthorList(), " and "))
		fmt.Fprintf(&sb, "  year = {%s},\n", year)
		fmt.Fprintf(&sb, "  journal = {arXiv preprint arXiv:%s},\n", p.ArxivID)
		fmt.Fprintf(&sb, "  eprint = {%s},\n", p.ArxivID)
		sb.WriteString("  archivePrefix = {arXiv},\n")
		fmt.Fprintf(&sb, "  url = {%s}\n", p.SourceURL)
		sb.WriteString("}")
		entries = append(entries, sb.String())
	}
	return strings.Join(entries, "\n\n")
}

// CitationKey builds <last name of first author><year>_<sanitized arXiv id>
func CitationKey(p *models.SavedPaper) string {
	lastName := "Unknown"
	if authors := p.AuthorList(); len(authors) > 0 {
		if parts := strings.Fields(authors[0]); len(parts) > 0 {
			lastName = parts[len(parts)-1]
		}
	}
	return lastName + publishedYear(p.PublishedDate, "0000") + "_" + sanitizeKey(p.ArxivID)
}

// sanitizeKey replaces anything but ASCII letters and digits with '_'
func sanitizeKey(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id)
}

// ToCSV renders a header row and one fully quoted row per paper.
func ToCSV(papers []models.SavedPaper) string {
	lines := []string{"Title,Authors,Year,arXiv ID,Categories,URL,Notes"}
	for i := range papers {
		p := &papers[i]
		fields := []string{
			p.Title,
			strings.Join(p.AuthorList(), "; "),
			publishedYear(p.PublishedDate, ""),
			p.ArxivID,
			strings.Join(p.CategoryList(), "; "),
			p.SourceURL,
			p.Notes,
		}
		for j, f := range fields {
			fields[j] = quoteCSV(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

const separator = "--------------------------------------------------------------------------------"

// ToText renders a numbered listing with indented detail lines.
func ToText(papers []models.SavedPaper) string {
	var sb strings.Builder
	for i := range papers {
		p := &papers[i]
		sb.WriteString(separator + "\n")
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, p.Title)
		fmt.Fprintf(&sb, "    Authors: %s\n", strings.Join(p.AuthorList(), ", "))
		fmt.Fprintf(&sb, "    Published: %s\n", p.PublishedDate)
		fmt.Fprintf(&sb, "    arXiv ID: %s\n", p.ArxivID)
		fmt.Fprintf(&sb, "    Categories: %s\n", strings.Join(p.CategoryList(), ", "))
		fmt.Fprintf(&sb, "    URL: %s\n", p.SourceURL)
		if p.Notes != "" {
			fmt.Fprintf(&sb, "    Notes: %s\n", p.Notes)
		}
	}
	if sb.Len() > 0 {
		sb.WriteString(separator + "\n")
	}
	return sb.String()
}

func publishedYear(published, fallback string) string {
	if len(published) < 4 {
		return fallback
	}
	return published[:4]
}
