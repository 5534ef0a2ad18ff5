package main

import (
	"context"
	"fmt"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/urfave/cli/v3"
)

// requireArg returns the named positional argument or ErrMissingArgument.
func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

func (r *Runner) AccountShow(ctx context.Context, cmd *cli.Command) error {
	account, err := r.api.Account.Get(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.AccountDetail(account), account)
}

func (r *Runner) AccountList(ctx context.Context, cmd *cli.Command) error {
	accounts, err := r.api.Account.List(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.AccountsTable(accounts), accounts)
}

// AccountSwitch makes id the current account for subsequent requests.
func (r *Runner) AccountSwitch(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	account, err := r.api.Account.Switch(ctx, id)
	if err != nil {
		return err
	}
	return r.done(account, "Switched to %s (%s)", account.Name, account.ID)
}

func (r *Runner) AccountUsers(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		id = r.session.AccountID()
	}
	if id == "" {
		return fmt.Errorf("%w: <id> (no current account)", shared.ErrMissingArgument)
	}

	users, err := r.api.Account.Users(ctx, id)
	if err != nil {
		return err
	}
	return r.render(formatter.AccountUsersTable(users), users)
}
