package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/scheduler"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

var errDrift = errors.New("ledger drift detected")

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check stock and balances against the document history",
	Long: `Recompute every product's stock and every party's balance from the
stored documents and transactions and list each mismatch. Nothing is
written. The command exits non-zero when any drift is found, so it can
run from cron or CI. With --record the pass is added to the history kept
by the server's daily schedule and, when storage is enabled, the full
report is archived to the bucket.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().Bool("record", false, "Store the result in the reconciliation run history")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	record, _ := cmd.Flags().GetBool("record")

	svc := reconcile.NewService(persistence.NewGormLedgerReader(app.db.DB), app.log)
	var (
		report *reconcile.Report
		err    error
	)
	if record {
		cfg := scheduler.DefaultReconcileSchedulerConfig()
		cfg.Timeout = app.cfg.Reconcile.Timeout
		runner := scheduler.NewReconcileScheduler(cfg, svc, scheduler.NewRunRepository(app.db.DB), app.log)
		archive, archErr := storage.OpenReportArchive(cmd.Context(), &app.cfg.Storage, app.log)
		if archErr != nil {
			return archErr
		}
		if archive != nil {
			runner.WithArchive(archive)
		}
		report, err = runner.RunOnce(cmd.Context(), scheduler.TriggerManual)
	} else {
		report, err = svc.Run(cmd.Context())
	}
	if err != nil {
		return err
	}
	printReport(report)
	if !report.Clean() {
		return errDrift
	}
	return nil
}

func printReport(r *reconcile.Report) {
	fmt.Printf("Checked %d items and %d parties at %s\n",
		r.ItemsChecked, r.PartiesChecked, r.CheckedAt.Format("2006-01-02 15:04:05"))
	if r.Clean() {
		fmt.Println("No drift.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if len(r.StockDrift) > 0 {
		fmt.Fprintln(w, "\nITEM\tEXPECTED\tACTUAL\tDIFF")
		for _, d := range r.StockDrift {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", d.Name, d.Expected, d.Actual, d.Difference)
		}
	}
	if len(r.BalanceDrift) > 0 {
		fmt.Fprintln(w, "\nPARTY\tEXPECTED\tACTUAL\tDIFF")
		for _, d := range r.BalanceDrift {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Expected.StringFixed(2), d.Actual.StringFixed(2), d.Difference.StringFixed(2))
		}
	}
	_ = w.Flush()
}
