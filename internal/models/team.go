package models

import "time"

// Team groups users within an account.
type Team struct {
	ID          string    `json:"teamId"`
	AccountID   string    `json:"accountId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TeamMember is a user's membership in a team.
type TeamMember struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joinedAt"`
}

// CreateTeamRequest is the body of POST /teams.
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description,omitempty"`
}

// UpdateTeamRequest is the body of PUT /teams/{id}.
type UpdateTeamRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// InviteMemberRequest is the body of POST /teams/{id}/members.
type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// UpdateMemberRoleRequest is the body of PUT /teams/{id}/members/{userId}.
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}
