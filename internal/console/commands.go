package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/aggregate"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/dto"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/mutation"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/projector"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/workflow"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/export"
)

// NewRootCmd builds the console command tree over one wired App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "agaspay-admin",
		Short:         "Barangay waterworks admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newDashboardCmd(app),
		newConnectionsCmd(app),
		newResidentsCmd(app),
		newPersonnelCmd(app),
		newArchiveCmd(app),
		newBillingCmd(app),
		newIncidentsCmd(app),
		newTasksCmd(app),
		newAnnouncementsCmd(app),
		newStatsCmd(app),
	)

	return root
}

// confirmAndRun drives a plain confirmation dialog around a mutation. With
// --yes the prompt is skipped but the dialog still gates the submit.
func (a *App) confirmAndRun(ctx context.Context, target string, assumeYes bool, run func(context.Context) error) error {
	dialog := workflow.NewConfirm(target)
	if err := dialog.Open(); err != nil {
		return err
	}
	if !assumeYes && !promptYes(a.out, target) {
		return dialog.Cancel()
	}
	return dialog.Submit(ctx, func(ctx context.Context, _ string) error {
		return run(ctx)
	})
}

// reasonAndRun drives a reason dialog: the reason is validated by the dialog
// before the mutation ever runs.
func (a *App) reasonAndRun(ctx context.Context, target, reason string, run workflow.SubmitFunc) error {
	dialog := workflow.NewReason(target)
	if err := dialog.Open(); err != nil {
		return err
	}
	dialog.SetReason(reason)
	return dialog.Submit(ctx, run)
}

func promptYes(out io.Writer, target string) bool {
	fmt.Fprintf(out, "proceed with %s? [y/N] ", target)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.login(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "logged in")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the waterworks summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// A failed refresh degrades to the retained rows instead of
			// blanking the whole summary.
			var degraded error
			load := func(key query.Key, fetch query.Fetcher, restore query.Restorer) (query.View, error) {
				view, err := app.await(ctx, key, fetch, restore)
				if err != nil {
					if !app.staleFallback(view, err) {
						return view, err
					}
					degraded = err
				}
				return view, nil
			}

			connView, err := load(app.stores.Connections.Key("", ""), app.stores.Connections.Fetch("", ""), app.stores.Connections.Restore())
			if err != nil {
				return err
			}
			billView, err := load(app.stores.Billing.BillsKey("", ""), app.stores.Billing.FetchBills("", ""), app.stores.Billing.RestoreBills())
			if err != nil {
				return err
			}
			payView, err := load(app.stores.Billing.PaymentsKey(""), app.stores.Billing.FetchPayments(""), app.stores.Billing.RestorePayments())
			if err != nil {
				return err
			}
			incView, err := load(app.stores.Incidents.Key(""), app.stores.Incidents.Fetch(""), app.stores.Incidents.Restore())
			if err != nil {
				return err
			}
			taskView, err := load(app.stores.Tasks.Key(""), app.stores.Tasks.Fetch(""), app.stores.Tasks.Restore())
			if err != nil {
				return err
			}

			summary := aggregate.BuildDashboard(
				items[models.Connection](connView),
				items[models.Bill](billView),
				items[models.Payment](payView),
				items[models.Incident](incView),
				items[models.Task](taskView),
			)

			fmt.Fprintf(app.out, "Connections: %d total, %d pending approval\n", summary.TotalConnections, summary.PendingApprovals)
			for state, count := range summary.ConnectionsByState {
				fmt.Fprintf(app.out, "  %-14s %d\n", state, count)
			}
			fmt.Fprintf(app.out, "Billing: %s billed, %s collected (%.1f%%), %s unpaid\n",
				formatMoney(summary.BilledTotal), formatMoney(summary.CollectedTotal),
				summary.CollectionRate, formatMoney(summary.UnpaidTotal))
			for zone, amount := range summary.RevenueByZone {
				fmt.Fprintf(app.out, "  %-14s %s\n", zone, formatMoney(amount))
			}
			fmt.Fprintf(app.out, "Open incidents: %d\n", summary.OpenIncidents)
			fmt.Fprintf(app.out, "Scheduled tasks: %d\n", summary.ScheduledTasks)
			return degraded
		},
	}
}

func newConnectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Manage water connections",
	}

	var status, zone, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List connections",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Connections.Key(status, zone), app.stores.Connections.Fetch(status, zone), app.stores.Connections.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.Connection](view),
				projector.Filter{Search: search, Zone: zone}, projector.ConnectionFacets())

			rows := make([][]string, 0, len(visible))
			for _, conn := range visible {
				rows = append(rows, []string{conn.ID, conn.AccountNumber, conn.MeterNumber, conn.ResidentName, conn.Zone, string(conn.Type), string(conn.Status)})
			}
			table(app.out, []string{"ID", "ACCOUNT", "METER", "RESIDENT", "ZONE", "TYPE", "STATUS"}, rows)
			return err
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&zone, "zone", "", "filter by zone")
	list.Flags().StringVar(&search, "search", "", "search name, account or meter number")

	var approveYes bool
	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.confirmAndRun(c.Context(), "approve "+id, approveYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.ApproveConnection(app.stores), id, dto.ApproveRequest{ID: id})
				return err
			})
		},
	}
	approve.Flags().BoolVarP(&approveYes, "yes", "y", false, "skip confirmation prompt")

	var rejectReason string
	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending connection with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.reasonAndRun(c.Context(), "reject "+id, rejectReason, func(ctx context.Context, reason string) error {
				_, err := app.exec.Execute(ctx, mutation.RejectConnection(app.stores), id, dto.RejectRequest{ID: id, Reason: reason})
				return err
			})
		},
	}
	reject.Flags().StringVar(&rejectReason, "reason", "", "rejection reason (min 10 characters)")

	setStatus := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Update a connection's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.UpdateConnectionStatus(app.stores), args[0],
				dto.UpdateStatusRequest{ID: args[0], Status: args[1]})
			return err
		},
	}

	var deleteYes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.confirmAndRun(c.Context(), "delete "+id, deleteYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.DeleteConnection(app.stores), id, dto.DeleteRequest{ID: id})
				return err
			})
		},
	}
	del.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")

	cmd.AddCommand(list, approve, reject, setStatus, del)
	return cmd
}

func newResidentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "residents",
		Short: "Browse residents",
	}

	var status, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List residents",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Residents.Key(status), app.stores.Residents.Fetch(status), app.stores.Residents.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.Resident](view),
				projector.Filter{Search: search}, projector.ResidentFacets())

			rows := make([][]string, 0, len(visible))
			for _, res := range visible {
				rows = append(rows, []string{res.ID, res.FullName(), res.Zone, res.ContactNo, string(res.Status)})
			}
			table(app.out, []string{"ID", "NAME", "ZONE", "CONTACT", "STATUS"}, rows)
			return err
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&search, "search", "", "search name or contact")

	var contactNo, email, zone string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a resident's contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.UpdateResident(app.stores), args[0], dto.UpdateResidentRequest{
				ID:        args[0],
				ContactNo: contactNo,
				Email:     email,
				Zone:      zone,
			})
			return err
		},
	}
	update.Flags().StringVar(&contactNo, "contact", "", "new contact number")
	update.Flags().StringVar(&email, "email", "", "new email address")
	update.Flags().StringVar(&zone, "zone", "", "new zone")

	var unarchive, archiveYes bool
	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive or restore a resident",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			verb := "archive"
			if unarchive {
				verb = "restore"
			}
			return app.confirmAndRun(c.Context(), verb+" resident "+id, archiveYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.ArchiveResident(app.stores), id,
					dto.ArchiveToggleRequest{ID: id, Unarchive: unarchive})
				return err
			})
		},
	}
	archive.Flags().BoolVar(&unarchive, "restore", false, "restore instead of archive")
	archive.Flags().BoolVarP(&archiveYes, "yes", "y", false, "skip confirmation prompt")

	cmd.AddCommand(list, update, archive)
	return cmd
}

func newPersonnelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personnel",
		Short: "Manage waterworks staff",
	}

	var status, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List personnel",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Personnel.Key(status), app.stores.Personnel.Fetch(status), app.stores.Personnel.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.Personnel](view),
				projector.Filter{Search: search}, projector.PersonnelFacets())

			rows := make([][]string, 0, len(visible))
			for _, per := range visible {
				rows = append(rows, []string{per.ID, per.Name, string(per.Role), per.Zone, string(per.Status)})
			}
			table(app.out, []string{"ID", "NAME", "ROLE", "ZONE", "STATUS"}, rows)
			return err
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&search, "search", "", "search name or role")

	var name, role, zone, contactNo string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new staff member",
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.CreatePersonnel(app.stores), name, dto.CreatePersonnelRequest{
				Name:      name,
				Role:      role,
				Zone:      zone,
				ContactNo: contactNo,
			})
			return err
		},
	}
	add.Flags().StringVar(&name, "name", "", "staff member name")
	add.Flags().StringVar(&role, "role", "", "meter_reader, plumber, collector or secretary")
	add.Flags().StringVar(&zone, "zone", "", "assigned zone")
	add.Flags().StringVar(&contactNo, "contact", "", "contact number")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("role")

	var updateZone, updateContact string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a staff member's assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.UpdatePersonnel(app.stores), args[0], dto.UpdatePersonnelRequest{
				ID:        args[0],
				Zone:      updateZone,
				ContactNo: updateContact,
			})
			return err
		},
	}
	update.Flags().StringVar(&updateZone, "zone", "", "new zone")
	update.Flags().StringVar(&updateContact, "contact", "", "new contact number")

	setStatus := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Update a staff member's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.UpdatePersonnelStatus(app.stores), args[0],
				dto.UpdateStatusRequest{ID: args[0], Status: args[1]})
			return err
		},
	}

	var unarchive, archiveYes bool
	archive := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive or restore a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			verb := "archive"
			if unarchive {
				verb = "restore"
			}
			return app.confirmAndRun(c.Context(), verb+" personnel "+id, archiveYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.ArchivePersonnel(app.stores), id,
					dto.ArchiveToggleRequest{ID: id, Unarchive: unarchive})
				return err
			})
		},
	}
	archive.Flags().BoolVar(&unarchive, "restore", false, "restore instead of archive")
	archive.Flags().BoolVarP(&archiveYes, "yes", "y", false, "skip confirmation prompt")

	cmd.AddCommand(list, add, update, setStatus, archive)
	return cmd
}

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Review archive requests",
	}

	var target, status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List archive requests",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Archives.Key(target, status), app.stores.Archives.Fetch(target, status), app.stores.Archives.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.ArchiveRequest](view),
				projector.Filter{Tab: target}, projector.ArchiveFacets())

			rows := make([][]string, 0, len(visible))
			for _, req := range visible {
				rows = append(rows, []string{req.ID, string(req.Target), req.TargetName, req.Reason, string(req.Status)})
			}
			table(app.out, []string{"ID", "TARGET", "NAME", "REASON", "STATUS"}, rows)
			return err
		},
	}
	list.Flags().StringVar(&target, "target", "", "connection or personnel")
	list.Flags().StringVar(&status, "status", "", "filter by status")

	var approveYes bool
	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve an archive request",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.confirmAndRun(c.Context(), "approve archive "+id, approveYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.ApproveArchive(app.stores), id, dto.ApproveRequest{ID: id})
				return err
			})
		},
	}
	approve.Flags().BoolVarP(&approveYes, "yes", "y", false, "skip confirmation prompt")

	var rejectReason string
	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject an archive request with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.reasonAndRun(c.Context(), "reject archive "+id, rejectReason, func(ctx context.Context, reason string) error {
				_, err := app.exec.Execute(ctx, mutation.RejectArchive(app.stores), id, dto.RejectRequest{ID: id, Reason: reason})
				return err
			})
		},
	}
	reject.Flags().StringVar(&rejectReason, "reason", "", "rejection reason (min 10 characters)")

	cmd.AddCommand(list, approve, reject)
	return cmd
}

func newBillingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Bills, payments and reports",
	}

	var period, status, search string
	bills := &cobra.Command{
		Use:   "bills",
		Short: "List bills",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Billing.BillsKey(period, status), app.stores.Billing.FetchBills(period, status), app.stores.Billing.RestoreBills())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.Bill](view),
				projector.Filter{Search: search}, projector.BillFacets())

			rows := make([][]string, 0, len(visible))
			for _, bill := range visible {
				rows = append(rows, []string{bill.ID, bill.AccountNumber, bill.ResidentName, bill.Period,
					fmt.Sprintf("%.1f", bill.CubicMeters), formatMoney(bill.Amount), string(bill.Status), formatDate(bill.DueDate)})
			}
			table(app.out, []string{"ID", "ACCOUNT", "RESIDENT", "PERIOD", "CU.M", "AMOUNT", "STATUS", "DUE"}, rows)
			return err
		},
	}
	bills.Flags().StringVar(&period, "period", "", "billing period, e.g. 2026-07")
	bills.Flags().StringVar(&status, "status", "", "filter by status")
	bills.Flags().StringVar(&search, "search", "", "search resident or account")

	var payPeriod string
	payments := &cobra.Command{
		Use:   "payments",
		Short: "List payments",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Billing.PaymentsKey(payPeriod), app.stores.Billing.FetchPayments(payPeriod), app.stores.Billing.RestorePayments())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			rows := make([][]string, 0)
			for _, pay := range items[models.Payment](view) {
				rows = append(rows, []string{pay.ID, pay.BillID, pay.AccountNumber, formatMoney(pay.Amount), pay.Method, pay.ReceivedBy, formatDate(pay.PaidAt)})
			}
			table(app.out, []string{"ID", "BILL", "ACCOUNT", "AMOUNT", "METHOD", "RECEIVED BY", "PAID"}, rows)
			return err
		},
	}
	payments.Flags().StringVar(&payPeriod, "period", "", "billing period")

	var amount float64
	var method string
	pay := &cobra.Command{
		Use:   "pay <bill-id>",
		Short: "Record a bill payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.MarkBillPaid(app.stores), args[0],
				dto.MarkPaidRequest{BillID: args[0], Amount: amount, Method: method})
			return err
		},
	}
	pay.Flags().Float64Var(&amount, "amount", 0, "payment amount")
	pay.Flags().StringVar(&method, "method", "cash", "payment method")
	_ = pay.MarkFlagRequired("amount")

	var exportPeriod, report, format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a billing or collection report",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			billView, err := app.await(ctx, app.stores.Billing.BillsKey(exportPeriod, ""), app.stores.Billing.FetchBills(exportPeriod, ""), app.stores.Billing.RestoreBills())
			if err != nil {
				return err
			}
			billItems := items[models.Bill](billView)

			var dataset export.Dataset
			switch report {
			case "collection":
				payView, err := app.await(ctx, app.stores.Billing.PaymentsKey(exportPeriod), app.stores.Billing.FetchPayments(exportPeriod), app.stores.Billing.RestorePayments())
				if err != nil {
					return err
				}
				dataset = aggregate.CollectionDataset(exportPeriod, billItems, items[models.Payment](payView))
			default:
				dataset = aggregate.BillingDataset(exportPeriod, billItems)
			}

			if format == "" {
				format = app.cfg.Reports.Format
			}
			var rendered []byte
			switch format {
			case "pdf":
				rendered, err = export.NewPDFExporter().Render(dataset)
			default:
				format = "csv"
				rendered, err = export.NewCSVExporter().Render(dataset)
			}
			if err != nil {
				return err
			}

			if err := os.MkdirAll(app.cfg.Reports.OutputDir, 0o755); err != nil {
				return err
			}
			name := fmt.Sprintf("%s-%s.%s", report, exportPeriod, format)
			if exportPeriod == "" {
				name = fmt.Sprintf("%s-%s.%s", report, time.Now().Format("2006-01-02"), format)
			}
			path := filepath.Join(app.cfg.Reports.OutputDir, name)
			if err := os.WriteFile(path, rendered, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "wrote %s\n", path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportPeriod, "period", "", "billing period")
	exportCmd.Flags().StringVar(&report, "report", "billing", "billing or collection")
	exportCmd.Flags().StringVar(&format, "format", "", "csv or pdf (defaults to config)")

	cmd.AddCommand(bills, payments, pay, exportCmd)
	return cmd
}

func newIncidentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "Track reported incidents",
	}

	var status, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List incidents",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Incidents.Key(status), app.stores.Incidents.Fetch(status), app.stores.Incidents.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.Incident](view),
				projector.Filter{Search: search}, projector.IncidentFacets())

			rows := make([][]string, 0, len(visible))
			for _, inc := range visible {
				rows = append(rows, []string{inc.ID, inc.Title, inc.Zone, string(inc.Status), inc.AssignedTo, formatDate(inc.ReportedAt)})
			}
			table(app.out, []string{"ID", "TITLE", "ZONE", "STATUS", "ASSIGNED", "REPORTED"}, rows)
			return err
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&search, "search", "", "search title, description or assignee")

	setStatus := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Update an incident's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.UpdateIncidentStatus(app.stores), args[0],
				dto.UpdateStatusRequest{ID: args[0], Status: args[1]})
			return err
		},
	}

	assign := &cobra.Command{
		Use:   "assign <id> <personnel-id>",
		Short: "Assign an incident to a staff member",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.AssignIncident(app.stores), args[0],
				dto.AssignIncidentRequest{ID: args[0], PersonnelID: args[1]})
			return err
		},
	}

	cmd.AddCommand(list, setStatus, assign)
	return cmd
}

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Schedule field work",
	}

	var status, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List scheduled tasks",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Tasks.Key(status), app.stores.Tasks.Fetch(status), app.stores.Tasks.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			visible := projector.Project(items[models.Task](view),
				projector.Filter{Search: search}, projector.TaskFacets())

			rows := make([][]string, 0, len(visible))
			for _, task := range visible {
				rows = append(rows, []string{task.ID, task.Title, task.Kind, task.Zone, task.AssignedTo, string(task.Status), formatDate(task.ScheduledFor)})
			}
			table(app.out, []string{"ID", "TITLE", "KIND", "ZONE", "ASSIGNED", "STATUS", "DATE"}, rows)
			return err
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&search, "search", "", "search title, kind or assignee")

	var title, kind, zone, assignedTo, date string
	create := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new task",
		RunE: func(c *cobra.Command, args []string) error {
			when, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date, want YYYY-MM-DD: %w", err)
			}
			_, err = app.exec.Execute(c.Context(), mutation.CreateTask(app.stores), title, dto.CreateTaskRequest{
				Title:        title,
				Kind:         kind,
				Zone:         zone,
				AssignedTo:   assignedTo,
				ScheduledFor: when,
			})
			return err
		},
	}
	create.Flags().StringVar(&title, "title", "", "task title")
	create.Flags().StringVar(&kind, "kind", "", "meter_reading, repair, disconnection...")
	create.Flags().StringVar(&zone, "zone", "", "zone")
	create.Flags().StringVar(&assignedTo, "assigned-to", "", "staff member name")
	create.Flags().StringVar(&date, "date", "", "scheduled date, YYYY-MM-DD")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("date")

	setStatus := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Complete or cancel a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.UpdateTaskStatus(app.stores), args[0],
				dto.UpdateStatusRequest{ID: args[0], Status: args[1]})
			return err
		},
	}

	var deleteYes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.confirmAndRun(c.Context(), "delete task "+id, deleteYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.DeleteTask(app.stores), id, dto.DeleteRequest{ID: id})
				return err
			})
		},
	}
	del.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")

	cmd.AddCommand(list, create, setStatus, del)
	return cmd
}

func newAnnouncementsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announcements",
		Short: "Barangay-wide notices",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List announcements",
		RunE: func(c *cobra.Command, args []string) error {
			view, err := app.await(c.Context(), app.stores.Announcements.Key(), app.stores.Announcements.Fetch(), app.stores.Announcements.Restore())
			if err != nil && !app.staleFallback(view, err) {
				return err
			}
			rows := make([][]string, 0)
			for _, ann := range items[models.Announcement](view) {
				rows = append(rows, []string{ann.ID, ann.Title, ann.PostedBy, formatDate(ann.PostedAt)})
			}
			table(app.out, []string{"ID", "TITLE", "POSTED BY", "POSTED"}, rows)
			return err
		},
	}

	var title, body string
	post := &cobra.Command{
		Use:   "post",
		Short: "Post an announcement",
		RunE: func(c *cobra.Command, args []string) error {
			_, err := app.exec.Execute(c.Context(), mutation.CreateAnnouncement(app.stores), title,
				dto.CreateAnnouncementRequest{Title: title, Body: body})
			return err
		},
	}
	post.Flags().StringVar(&title, "title", "", "announcement title")
	post.Flags().StringVar(&body, "body", "", "announcement body (min 10 characters)")
	_ = post.MarkFlagRequired("title")
	_ = post.MarkFlagRequired("body")

	var deleteYes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			return app.confirmAndRun(c.Context(), "delete announcement "+id, deleteYes, func(ctx context.Context) error {
				_, err := app.exec.Execute(ctx, mutation.DeleteAnnouncement(app.stores), id, dto.DeleteRequest{ID: id})
				return err
			})
		},
	}
	del.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")

	cmd.AddCommand(list, post, del)
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show sync-layer counters for this session",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.metrics.Stats()
			fmt.Fprintf(app.out, "cache hits:        %d\n", snap.CacheHits)
			fmt.Fprintf(app.out, "cache misses:      %d\n", snap.CacheMisses)
			fmt.Fprintf(app.out, "cache hit ratio:   %.2f\n", snap.CacheHitRatio)
			fmt.Fprintf(app.out, "fetches:           %d\n", snap.Fetches)
			fmt.Fprintf(app.out, "mutations:         %d\n", snap.Mutations)
			fmt.Fprintf(app.out, "stale discarded:   %d\n", snap.StaleDiscarded)
			return nil
		},
	}
}
