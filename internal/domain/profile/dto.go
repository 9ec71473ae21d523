package profile

import "time"

// UpdateRequest updates the caller's own profile. Nil fields are left
// unchanged.
type UpdateRequest struct {
	Bio        *string `json:"bio" validate:"omitempty,max=1000"`
	Visibility *string `json:"visibility" validate:"omitempty,oneof=public friends private"`
	Discord    *string `json:"discord" validate:"omitempty,max=100"`
	Twitter    *string `json:"twitter" validate:"omitempty,max=100"`
	Website    *string `json:"website" validate:"omitempty,url,max=200"`
}

// Response is the API shape of a profile.
type Response struct {
	Username   string    `json:"username"`
	Bio        string    `json:"bio,omitempty"`
	Visibility string    `json:"visibility"`
	Discord    string    `json:"discord,omitempty"`
	Twitter    string    `json:"twitter,omitempty"`
	Website    string    `json:"website,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewResponse maps a profile to its API shape.
func NewResponse(username string, p *Profile) Response {
	return Response{
		Username:   username,
		Bio:        p.Bio.String,
		Visibility: p.Visibility,
		Discord:    p.Discord.String,
		Twitter:    p.Twitter.String,
		Website:    p.Website.String,
		UpdatedAt:  p.UpdatedAt,
	}
}
