package models

// HealthCheckResponse is returned by the health endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// PaginationInfo describes the page returned by a list endpoint
type PaginationInfo struct {
	CurrentPage int  `json:"currentPage"`
	Limit       int  `json:"limit"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPaginationInfo derives the page metadata from a total count
func NewPaginationInfo(page, limit, total int) PaginationInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PaginationInfo{
		CurrentPage: page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// ScoredContent is a content item with its ranking score
type ScoredContent struct {
	Item  ContentItem `json:"item"`
	Score float64     `json:"score"`
}

// FeedResponse is the body of the ranked feed endpoint
type FeedResponse struct {
	Success    bool            `json:"success"`
	Algorithm  string          `json:"algorithm"`
	Items      []ScoredContent `json:"items"`
	Pagination PaginationInfo  `json:"pagination"`
}

// ReportSubmissionResponse is the body returned after a report is filed
type ReportSubmissionResponse struct {
	Success     bool            `json:"success"`
	Report      Report          `json:"report"`
	Moderation  ModerationState `json:"moderation"`
	AutoFlagged bool            `json:"autoFlagged"`
}

// ReportListResponse is the body of the moderator report queue
type ReportListResponse struct {
	Success    bool           `json:"success"`
	Reports    []Report       `json:"reports"`
	Pagination PaginationInfo `json:"pagination"`
}

// ContentListResponse is the body of the flagged content list
type ContentListResponse struct {
	Success    bool           `json:"success"`
	Items      []ContentItem  `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
