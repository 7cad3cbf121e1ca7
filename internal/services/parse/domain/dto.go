package domain

// ParseRequest is the wire shape for one parse call
type ParseRequest struct {
	Text     string         `json:"text" validate:"required,min=1"`
	Locale   string         `json:"locale" validate:"omitempty,voicelocale"`
	Projects []KnownProject `json:"projects" validate:"required,min=1,dive"`
}
