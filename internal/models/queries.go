package models

// SearchPapersQuery holds the query string of GET /api/papers/search
type SearchPapersQuery struct {
	Query      string `query:"query"`
	Categories string `query:"categories"`
	DateFrom   string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	SortBy     string `query:"sort_by" validate:"oneof=relevance date updated"`
	MaxResults int    `query:"max_results" validate:"min=1,max=100"`
	Start      int    `query:"start" validate:"min=0"`
}

type TrendingQuery struct {
	Days  int `query:"days" validate:"min=1,max=30"`
	Limit int `query:"limit" validate:"min=1,max=50"`
}

type FeedQuery struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

type ExportQuery struct {
	Format string `query:"format" validate:"required"`
	Tag    string `query:"tag"`
}
