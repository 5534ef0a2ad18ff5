package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/wizard"
	"github.com/urfave/cli/v3"
)

func (r *Runner) TeamsList(ctx context.Context, cmd *cli.Command) error {
	teams, err := r.api.Teams.List(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.TeamsTable(teams), teams)
}

func (r *Runner) TeamsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	team, err := r.api.Teams.Get(ctx, id)
	if err != nil {
		return err
	}

	t := formatter.KeyValueTable("Team",
		"ID", team.ID,
		"Name", team.Name,
		"Description", team.Description,
		"Members", strconv.Itoa(team.MemberCount),
		"Created", shared.FormatTime(team.CreatedAt),
	)
	return r.render(t, team)
}

func (r *Runner) TeamsCreate(ctx context.Context, cmd *cli.Command) error {
	team, err := r.api.Teams.Create(ctx, models.CreateTeamRequest{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
	})
	if err != nil {
		return err
	}
	return r.done(team, "Created team %s (%s)", team.Name, team.ID)
}

func (r *Runner) TeamsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.api.Teams.Delete(ctx, id); err != nil {
		return err
	}
	return r.done(map[string]string{"deleted": id}, "Deleted team %s", id)
}

func (r *Runner) TeamsMembers(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	members, err := r.api.Teams.Members(ctx, id)
	if err != nil {
		return err
	}
	return r.render(formatter.MembersTable(members), members)
}

func (r *Runner) TeamsInvite(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	member, err := r.api.Teams.Invite(ctx, id, models.InviteMemberRequest{
		Email: cmd.String("email"),
		Role:  cmd.String("role"),
	})
	if err != nil {
		return err
	}
	return r.done(member, "Invited %s as %s", member.Email, member.Role)
}

func (r *Runner) RolesList(ctx context.Context, cmd *cli.Command) error {
	roles, err := r.api.Teams.Roles(ctx, cmd.String("team"))
	if err != nil {
		return err
	}
	return r.render(formatter.RolesTable(roles), roles)
}

// RolesCreate builds a role with the permission editor and adds it to the team.
func (r *Runner) RolesCreate(ctx context.Context, cmd *cli.Command) error {
	editor := wizard.NewRolePermissionEditor()
	if err := editor.Set("name", cmd.String("name")); err != nil {
		return err
	}
	if err := editor.Set("description", cmd.String("description")); err != nil {
		return err
	}
	if err := editor.Set("permissions", strings.Join(cmd.StringSlice("permission"), ",")); err != nil {
		return err
	}

	if err := advance(editor); err != nil {
		return err
	}
	role, err := editor.Submit()
	if err != nil {
		return err
	}

	created, err := r.api.Teams.CreateRole(ctx, cmd.String("team"), role)
	if err != nil {
		return err
	}
	return r.done(created, "Created role %s with %d permission(s)", created.Name, len(created.Permissions))
}
