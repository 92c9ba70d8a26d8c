// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/MKhiriev/go-invoicer/models"
)

func (a *App) version(ctx context.Context, _ []string) error {
	a.printf("client %s", a.buildInfo)

	server, err := a.api.Version(ctx)
	if err != nil {
		return fmt.Errorf("server version: %w", err)
	}
	a.printf("server %s", server)
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	user, err := a.api.Register(ctx, models.RegisterRequest{Name: args[0], Email: args[1], Password: args[2]})
	if err != nil {
		return err
	}
	a.printf("registered %s (id %d)", user.Email, user.ID)
	a.printToken()
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	user, err := a.api.Login(ctx, models.LoginRequest{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	a.printf("logged in as %s", user.Email)
	a.printToken()
	return nil
}

func (a *App) printToken() {
	a.printf("export INVOICER_TOKEN=%s", a.api.Token())
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.printf("logged out")
	return nil
}

func (a *App) me(ctx context.Context, _ []string) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	a.printf("%s <%s> role=%s", user.Name, user.Email, user.Role)
	return nil
}

func (a *App) listInvoices(ctx context.Context, args []string) error {
	var filter models.InvoiceFilter
	if len(args) > 0 {
		filter.Status = models.InvoiceStatus(args[0])
	}

	invoices, err := a.api.ListInvoices(ctx, filter)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tCLIENT\tSTATUS\tDUE\tTOTAL")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", inv.ID, inv.InvoiceNumber, inv.Client.Name, inv.Status, inv.DueDate, inv.Total)
	}
	return tw.Flush()
}

func (a *App) showInvoice(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	inv, err := a.api.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	a.printf("%s  %s  issued %s  due %s", inv.InvoiceNumber, inv.Status, inv.IssueDate, inv.DueDate)
	a.printf("bill to: %s", inv.Client.Name)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, item := range inv.Items {
		fmt.Fprintf(tw, "%s\t%d x %s\t%s\t\n", item.Description, item.Quantity, item.UnitPrice, item.Total)
	}
	fmt.Fprintf(tw, "subtotal\t\t%s\t\n", inv.Subtotal)
	fmt.Fprintf(tw, "tax\t\t%s\t\n", inv.TaxAmount)
	if inv.DiscountAmount != 0 {
		fmt.Fprintf(tw, "discount\t\t-%s\t\n", inv.DiscountAmount)
	}
	fmt.Fprintf(tw, "total\t\t%s\t\n", inv.Total)
	return tw.Flush()
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	inv, err := a.api.SetInvoiceStatus(ctx, id, models.InvoiceStatus(args[1]))
	if err != nil {
		return err
	}
	a.printf("%s is now %s", inv.InvoiceNumber, inv.Status)
	return nil
}

func (a *App) duplicate(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	inv, err := a.api.DuplicateInvoice(ctx, id)
	if err != nil {
		return err
	}
	a.printf("created %s (id %d)", inv.InvoiceNumber, inv.ID)
	return nil
}

func (a *App) spawnRecurring(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	inv, spawned, err := a.api.SpawnRecurring(ctx, id)
	if err != nil {
		return err
	}
	if !spawned {
		a.printf("invoice %d is not recurring", id)
		return nil
	}
	a.printf("created %s issued %s", inv.InvoiceNumber, inv.IssueDate)
	return nil
}

func (a *App) share(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	link, err := a.api.ShareInvoice(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s (expires %s)", link.URL, link.ExpiresAt.Format("2006-01-02 15:04 MST"))
	return nil
}

func (a *App) deleteInvoice(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err = a.api.DeleteInvoice(ctx, id); err != nil {
		return err
	}
	a.printf("deleted invoice %d", id)
	return nil
}

func (a *App) listClients(ctx context.Context, _ []string) error {
	clients, err := a.api.ListClients(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tOUTSTANDING")
	for _, c := range clients {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.OutstandingBalance)
	}
	return tw.Flush()
}

func (a *App) createClient(ctx context.Context, args []string) error {
	client := models.Client{Name: args[0]}
	if len(args) > 1 {
		client.Email = args[1]
	}

	created, err := a.api.CreateClient(ctx, client)
	if err != nil {
		return err
	}
	a.printf("created client %s (id %d)", created.Name, created.ID)
	return nil
}

func (a *App) stats(ctx context.Context, _ []string) error {
	stats, err := a.api.DashboardStats(ctx)
	if err != nil {
		return err
	}

	a.printf("revenue: %s total, %s this month, %s pending", stats.Revenue.Total, stats.Revenue.ThisMonth, stats.Revenue.Pending)
	a.printf("invoices: %d (%d draft, %d sent, %d paid, %d overdue, %d cancelled)",
		stats.Invoices.Total, stats.Invoices.Draft, stats.Invoices.Sent, stats.Invoices.Paid, stats.Invoices.Overdue, stats.Invoices.Cancelled)
	a.printf("clients: %d", stats.Clients.Total)
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrUsage, raw)
	}
	return id, nil
}
