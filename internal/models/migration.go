package models

import "encoding/json"

// MigrationRequest carries state a client kept locally before accounts existed
type MigrationRequest struct {
	Preferences MigrationPreferences `json:"preferences"`
	SavedPapers []json.RawMessage    `json:"saved_papers"`
}

type MigrationPreferences struct {
	SeenPaperIDs     []string  `json:"seenPaperIds"`
	DislikedPaperIDs []string  `json:"dislikedPaperIds"`
	SelectedTopics   *[]string `json:"selectedTopics"`
}

// LocalSavedPaper is a saved paper in the client's local storage shape
type LocalSavedPaper struct {
	ID            string   `json:"id" validate:"required,max=100"`
	Title         string   `json:"title" validate:"required"`
	Authors       []string `json:"authors" validate:"required"`
	Abstract      string   `json:"abstract" validate:"required"`
	Categories    []string `json:"categories" validate:"required"`
	PublishedDate string   `json:"publishedDate"`
	PDFURL        string   `json:"pdfUrl"`
	SourceURL     string   `json:"sourceUrl"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags"`
}

type MigrationResult struct {
	Message  string   `json:"message"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
