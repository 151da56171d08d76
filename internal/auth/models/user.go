package models

// ============================================================
// User Model
// ============================================================

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture"`
	CreatedAt      string `json:"createdAt"`
}
