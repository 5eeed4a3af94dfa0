package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/domain"
)

// ReferenceCommand lists projects, clients or users
type ReferenceCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	name         string
	list         func(ctx context.Context) ([]row, error)
}

type row struct {
	id    int64
	name  string
	extra string
}

// NewProjectsCommand creates the projects command handler
func NewProjectsCommand(app *App) *ReferenceCommand {
	return newReferenceCommand(app, "projects", func(ctx context.Context) ([]row, error) {
		projects, err := app.businessAPI.Projects(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]row, 0, len(projects))
		for _, p := range projects {
			extra := ""
			if !p.Active {
				extra = "archived"
			}
			rows = append(rows, row{id: p.ID, name: p.Name, extra: extra})
		}
		return rows, nil
	})
}

// NewClientsCommand creates the clients command handler
func NewClientsCommand(app *App) *ReferenceCommand {
	return newReferenceCommand(app, "clients", func(ctx context.Context) ([]row, error) {
		clients, err := app.businessAPI.Clients(ctx)
		if err != nil {
			return nil, err
		}
		return namedRows(clients), nil
	})
}

// NewUsersCommand creates the users command handler
func NewUsersCommand(app *App) *ReferenceCommand {
	return newReferenceCommand(app, "users", func(ctx context.Context) ([]row, error) {
		users, err := app.businessAPI.Users(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]row, 0, len(users))
		for _, u := range users {
			rows = append(rows, row{id: u.ID, name: u.Name, extra: u.Email})
		}
		return rows, nil
	})
}

func newReferenceCommand(app *App, name string, list func(ctx context.Context) ([]row, error)) *ReferenceCommand {
	return &ReferenceCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		name:         name,
		list:         list,
	}
}

func namedRows[T domain.Named](items []T) []row {
	rows := make([]row, 0, len(items))
	for _, item := range items {
		rows = append(rows, row{id: item.GetID(), name: item.GetName()})
	}
	return rows
}

// Execute prints one line per item: id, name and a detail column
func (c *ReferenceCommand) Execute(ctx context.Context, args []string) error {
	if err := requireNoArgs(c.name, args); err != nil {
		return err
	}

	if c.app.refreshReferences {
		if err := c.businessAPI.ReloadReferences(ctx); err != nil {
			return c.errorHandler.Handle("refresh "+c.name, err)
		}
	}

	rows, err := c.list(ctx)
	if err != nil {
		return c.errorHandler.Handle("list "+c.name, err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(c.app.out, "No %s found\n", c.name)
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.id, r.name, r.extra)
	}
	return w.Flush()
}
