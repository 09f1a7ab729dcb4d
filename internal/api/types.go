package api

import "strings"

// PostMessageRequest is the body of POST /messages. Older clients send the
// display name as "user" instead of "user_name"; Normalize folds the
// fallbacks into one place instead of scattering them through the handler.
type PostMessageRequest struct {
	UserName    string `json:"user_name"`
	User        string `json:"user"`
	Message     string `json:"message"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Normalize resolves the display-name fallback chain.
func (r *PostMessageRequest) Normalize() {
	if strings.TrimSpace(r.UserName) == "" {
		r.UserName = r.User
	}
}

// PostMessageResponse echoes the stored row id and the resolved (possibly
// generated) display name.
type PostMessageResponse struct {
	OK        bool   `json:"ok"`
	MessageID int64  `json:"message_id"`
	UserName  string `json:"user_name"`
}

// RecommendRequest is the body of POST /recommend. Title "random" asks the
// server to pick a movie itself.
type RecommendRequest struct {
	Title string `json:"title"`
	Year  string `json:"year"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
