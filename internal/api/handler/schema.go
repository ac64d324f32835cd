package handler

import "github.com/sxc/scholarhub/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email      string `json:"email"      validate:"required"`
	Password   string `json:"password"   validate:"required"`
	Name       string `json:"name"       validate:"required"`
	Department string `json:"department" validate:"required"`
	Year       string `json:"year"       validate:"required"`
}

func (registerRequest) invalidMessage() string { return "All fields are required" }

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (loginRequest) invalidMessage() string { return "Email and password are required" }

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// --- Resources ---

type createResourceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Department  string `json:"department"  validate:"required"`
	Year        string `json:"year"        validate:"required"`
	Semester    string `json:"semester"`
	Type        string `json:"type"        validate:"required"`
	FileContent string `json:"fileContent"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	GDriveLink  string `json:"gdriveLink"`
}

func (createResourceRequest) invalidMessage() string { return "Required fields are missing" }

type createResourceResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type bookmarkResponse struct {
	IsBookmarked bool   `json:"isBookmarked"`
	Message      string `json:"message"`
}

type searchQuery struct {
	Q          string `query:"q"`
	Department string `query:"department"`
	Year       string `query:"year"`
	Type       string `query:"type"`
}

// --- Dashboards ---

type studentDashboardResponse struct {
	TotalDownloads      int                `json:"totalDownloads"`
	RecentResources     []*domain.Resource `json:"recentResources"`
	BookmarkedResources []*domain.Resource `json:"bookmarkedResources"`
	TrendingResources   []*domain.Resource `json:"trendingResources"`
}

type adminDashboardResponse struct {
	TotalUploads    int64              `json:"totalUploads"`
	RecentUploads   []*domain.Resource `json:"recentUploads"`
	PendingRequests []string           `json:"pendingRequests"`
}

// orEmpty keeps list fields serialised as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
