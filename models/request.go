package models

import "strings"

// Response formats for GET /pfp/:username.
const (
	FormatImage    = "image"
	FormatJSON     = "json"
	FormatRedirect = "redirect"
)

// ProfileRequest describes one profile-picture fetch.
type ProfileRequest struct {
	// Username is the profile to fetch. A leading "@" is stripped. Required.
	Username string `json:"username" binding:"required"`

	// Device is the named device-emulation preset.
	// Default: "iphone-12-pro".
	Device string `json:"device,omitempty"`

	// Format controls how the result is delivered.
	// Allowed: "image" (default), "json", "redirect".
	Format string `json:"format,omitempty" binding:"omitempty,oneof=image json redirect"`
}

// Defaults normalises the username and applies default values to unset fields.
func (r *ProfileRequest) Defaults() {
	r.Username = strings.TrimPrefix(strings.TrimSpace(r.Username), "@")
	if r.Device == "" {
		r.Device = "iphone-12-pro"
	}
	if r.Format == "" {
		r.Format = FormatImage
	}
}
