package main

import (
	"context"
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/wizard"
	"github.com/urfave/cli/v3"
)

func (r *Runner) ClientsList(ctx context.Context, cmd *cli.Command) error {
	clients, err := r.api.Clients.List(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.ClientsTable(clients), clients)
}

func (r *Runner) ClientsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	client, err := r.api.Clients.Get(ctx, id)
	if err != nil {
		return err
	}

	t := formatter.KeyValueTable("Client",
		"ID", client.ID,
		"Name", client.Name,
		"Type", client.Type,
		"Company", client.Company,
		"Contact", client.ContactName,
		"Email", client.ContactEmail,
		"Phone", client.Phone,
		"Plan", client.Plan,
		"Status", client.Status,
		"Accounts", strings.Join(client.AccountIDs, ", "),
		"Created", shared.FormatTime(client.CreatedAt),
	)
	return r.render(t, client)
}

// clientFlags maps client registration fields to the register flags that set them.
var clientFlags = []struct{ field, flag string }{
	{"name", "name"},
	{"type", "type"},
	{"company", "company"},
	{"contactName", "contact-name"},
	{"contactEmail", "contact-email"},
	{"phone", "phone"},
	{"plan", "plan"},
	{"notes", "notes"},
}

// ClientsRegister fills the client registration flow from flags and creates the client.
func (r *Runner) ClientsRegister(ctx context.Context, cmd *cli.Command) error {
	reg := wizard.NewClientRegistration()
	for _, f := range clientFlags {
		if err := reg.Set(f.field, cmd.String(f.flag)); err != nil {
			return err
		}
	}

	if err := advance(reg); err != nil {
		return err
	}
	req, err := reg.Submit()
	if err != nil {
		return err
	}

	client, err := r.api.Clients.Create(ctx, req)
	if err != nil {
		return err
	}
	return r.done(client, "Registered client %s (%s)", client.Name, client.ID)
}

func (r *Runner) ClientsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.api.Clients.Delete(ctx, id); err != nil {
		return err
	}
	return r.done(map[string]string{"deleted": id}, "Deleted client %s", id)
}
