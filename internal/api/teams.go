package api

import (
	"context"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// TeamsAPI wraps /teams, including membership and team roles.
type TeamsAPI struct {
	client *Client
}

func (t *TeamsAPI) List(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := t.client.list(ctx, "/teams", nil, "teams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (t *TeamsAPI) Get(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := t.client.get(ctx, resourcePath("teams", id), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (t *TeamsAPI) Create(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error) {
	var team models.Team
	if err := t.client.post(ctx, "/teams", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (t *TeamsAPI) Update(ctx context.Context, id string, req models.UpdateTeamRequest) (*models.Team, error) {
	var team models.Team
	if err := t.client.put(ctx, resourcePath("teams", id), req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (t *TeamsAPI) Delete(ctx context.Context, id string) error {
	return t.client.delete(ctx, resourcePath("teams", id))
}

func (t *TeamsAPI) Members(ctx context.Context, id string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := t.client.list(ctx, resourcePath("teams", id, "members"), nil, "members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Invite adds a member by email.
func (t *TeamsAPI) Invite(ctx context.Context, id string, req models.InviteMemberRequest) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := t.client.post(ctx, resourcePath("teams", id, "members"), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (t *TeamsAPI) UpdateMemberRole(ctx context.Context, id, userID, role string) (*models.TeamMember, error) {
	var m models.TeamMember
	path := resourcePath("teams", id, "members", userID)
	if err := t.client.put(ctx, path, models.UpdateMemberRoleRequest{Role: role}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (t *TeamsAPI) RemoveMember(ctx context.Context, id, userID string) error {
	return t.client.delete(ctx, resourcePath("teams", id, "members", userID))
}

// Roles lists the custom roles defined for a team.
func (t *TeamsAPI) Roles(ctx context.Context, id string) ([]models.Role, error) {
	var roles []models.Role
	if err := t.client.list(ctx, resourcePath("teams", id, "roles"), nil, "roles", &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// CreateRole defines a custom role, typically built with the role/permission editor.
func (t *TeamsAPI) CreateRole(ctx context.Context, id string, role models.Role) (*models.Role, error) {
	var created models.Role
	if err := t.client.post(ctx, resourcePath("teams", id, "roles"), role, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
