package model

import "time"

// Roles recognized in session claims.
const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"
)

// UserResponse is the API view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserToResponse converts a user entity to its API view.
func UserToResponse(ent *User) UserResponse {
	return UserResponse{
		ID:        ent.ID,
		Name:      ent.Name,
		Email:     ent.Email,
		Role:      ent.Role,
		CreatedAt: ent.CreatedAt,
	}
}
