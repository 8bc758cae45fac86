package models

import (
	"time"

	"gorm.io/datatypes"
)

// SavedPaper is a user's copy of an arXiv paper plus their annotations
type SavedPaper struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	UserID        uint                        `json:"user_id" gorm:"not null;index:idx_saved_user_arxiv"`
	ArxivID       string                      `json:"arxiv_id" gorm:"size:100;not null;index;index:idx_saved_user_arxiv"`
	Title         string                      `json:"title" gorm:"not null"`
	Authors       datatypes.JSONSlice[string] `json:"authors" gorm:"not null"`
	Abstract      string                      `json:"abstract" gorm:"not null"`
	Categories    datatypes.JSONSlice[string] `json:"categories" gorm:"not null"`
	PublishedDate string                      `json:"published_date" gorm:"size:50;not null"`
	PDFURL        string                      `json:"pdf_url" gorm:"column:pdf_url;size:500"`
	SourceURL     string                      `json:"source_url" gorm:"size:500;not null"`
	Notes         string                      `json:"notes"`
	IsLiked       int                         `json:"is_liked" gorm:"default:1"`
	IsPublic      bool                        `json:"is_public" gorm:"index"`
	SavedAt       time.Time                   `json:"saved_at" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Tags []Tag `json:"-" gorm:"many2many:saved_paper_tags;constraint:OnDelete:CASCADE"`
}

// TagNames returns the names of the loaded tags
func (p *SavedPaper) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// AuthorList returns the authors, never nil
func (p *SavedPaper) AuthorList() []string {
	if p.Authors == nil {
		return []string{}
	}
	return []string(p.Authors)
}

// CategoryList returns the categories, never nil
func (p *SavedPaper) CategoryList() []string {
	if p.Categories == nil {
		return []string{}
	}
	return []string(p.Categories)
}

type CreateSavedPaperRequest struct {
	ArxivID       string   `json:"arxiv_id" validate:"required,max=100"`
	Title         string   `json:"title" validate:"required"`
	Authors       []string `json:"authors" validate:"required"`
	Abstract      string   `json:"abstract" validate:"required"`
	Categories    []string `json:"categories" validate:"required"`
	PublishedDate string   `json:"published_date" validate:"required,max=50"`
	PDFURL        string   `json:"pdf_url" validate:"omitempty,max=500"`
	SourceURL     string   `json:"source_url" validate:"required,max=500"`
	Notes         string   `json:"notes"`
	IsPublic      *bool    `json:"is_public"`
}

type UpdateSavedPaperRequest struct {
	Notes    *string   `json:"notes"`
	Tags     *[]string `json:"tags" validate:"omitempty,dive,required,max=100"`
	IsPublic *bool     `json:"is_public"`
}

type SavedPaperResponse struct {
	ID            uint      `json:"id"`
	ArxivID       string    `json:"arxiv_id"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	Abstract      string    `json:"abstract"`
	Categories    []string  `json:"categories"`
	PublishedDate string    `json:"published_date"`
	PDFURL        string    `json:"pdf_url"`
	SourceURL     string    `json:"source_url"`
	Notes         string    `json:"notes"`
	Tags          []string  `json:"tags"`
	IsPublic      bool      `json:"is_public"`
	SavedAt       time.Time `json:"saved_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *SavedPaper) ToResponse() SavedPaperResponse {
	return SavedPaperResponse{
		ID:            p.ID,
		ArxivID:       p.ArxivID,
		Title:         p.Title,
		Authors:       p.AuthorList(),
		Abstract:      p.Abstract,
		Categories:    p.CategoryList(),
		PublishedDate: p.PublishedDate,
		PDFURL:        p.PDFURL,
		SourceURL:     p.SourceURL,
		Notes:         p.Notes,
		Tags:          p.TagNames(),
		IsPublic:      p.IsPublic,
		SavedAt:       p.SavedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PaperSummary is the metadata part of a saved paper shown in the feed
type PaperSummary struct {
	ID            uint     `json:"id"`
	ArxivID       string   `json:"arxiv_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	Categories    []string `json:"categories"`
	PublishedDate string   `json:"published_date"`
	PDFURL        string   `json:"pdf_url"`
	SourceURL     string   `json:"source_url"`
}

func (p *SavedPaper) ToSummary() PaperSummary {
	return PaperSummary{
		ID:            p.ID,
		ArxivID:       p.ArxivID,
		Title:         p.Title,
		Authors:       p.AuthorList(),
		Abstract:      p.Abstract,
		Categories:    p.CategoryList(),
		PublishedDate: p.PublishedDate,
		PDFURL:        p.PDFURL,
		SourceURL:     p.SourceURL,
	}
}

// TrendingPaper aggregates public saves of one arXiv paper
type TrendingPaper struct {
	ArxivID       string   `json:"arxiv_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	Categories    []string `json:"categories"`
	PublishedDate string   `json:"published_date"`
	PDFURL        string   `json:"pdf_url"`
	SourceURL     string   `json:"source_url"`
	SaveCount     int64    `json:"save_count"`
	RecentSaves   int64    `json:"recent_saves"`
}

// FeedItem is one activity entry from a followed user
type FeedItem struct {
	User      UserProfile  `json:"user"`
	Paper     PaperSummary `json:"paper"`
	Action    string       `json:"action"`
	CreatedAt time.Time    `json:"created_at"`
}
