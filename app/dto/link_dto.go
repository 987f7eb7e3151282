package dto

// LinkDTO is the public representation of a short link
type LinkDTO struct {
	UUID        string  `json:"uuid"`
	WorkspaceID uint    `json:"workspace_id"`
	Code        string  `json:"code"`
	TargetURL   string  `json:"target_url"`
	ShortURL    string  `json:"short_url"`
	Title       *string `json:"title,omitempty"`
	IsActive    bool    `json:"is_active"`
	Clicks      int64   `json:"clicks"`
	CreatedAt   string  `json:"created_at"`
}

// CreateLinkRequest defines input for link creation.
// Code is optional; when present it must pass the same global
// uniqueness check as generated codes.
type CreateLinkRequest struct {
	WorkspaceID uint   `json:"workspace_id" validate:"required"`
	TargetURL   string `json:"target_url" validate:"required,max=2048"`
	Code        string `json:"code" validate:"omitempty,min=3,max=64,alphanum"`
	Title       string `json:"title" validate:"omitempty,max=255"`
}

// UpdateLinkRequest defines mutable link fields; nil means unchanged
type UpdateLinkRequest struct {
	TargetURL *string `json:"target_url" validate:"omitempty,max=2048"`
	Code      *string `json:"code" validate:"omitempty,min=3,max=64,alphanum"`
	Title     *string `json:"title" validate:"omitempty,max=255"`
	IsActive  *bool   `json:"is_active"`
}

// ListLinksResponse wraps a workspace's links, newest first
type ListLinksResponse struct {
	WorkspaceID uint      `json:"workspace_id"`
	Links       []LinkDTO `json:"links"`
}
