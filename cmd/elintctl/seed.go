package main

import (
	"encoding/json"
	"os"

	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/application/masterdata"
	"github.com/sharadhiadiga/Elint/internal/application/seed"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/event"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with generated demo data",
	Long: `Generate items, parties, purchases, sales, orders and payments through
the ledger services, so stock and balances stay consistent with the
documents that produced them.`,
	Example: `  # A small shop's first month
  elintctl seed

  # Reproducible run with more sales
  elintctl seed --seed 42 --sales 200`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	d := seed.DefaultConfig()
	seedCmd.Flags().Int("items", d.Items, "Number of items to create")
	seedCmd.Flags().Int("parties", d.Parties, "Number of parties to create")
	seedCmd.Flags().Int("purchases", d.Purchases, "Number of purchase bills to create")
	seedCmd.Flags().Int("sales", d.Sales, "Number of sale invoices to create")
	seedCmd.Flags().Int("orders", d.Orders, "Number of orders to create")
	seedCmd.Flags().Int("payments", d.Payments, "Number of standalone payments to record")
	seedCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	var cfg seed.Config
	cfg.Items, _ = cmd.Flags().GetInt("items")
	cfg.Parties, _ = cmd.Flags().GetInt("parties")
	cfg.Purchases, _ = cmd.Flags().GetInt("purchases")
	cfg.Sales, _ = cmd.Flags().GetInt("sales")
	cfg.Orders, _ = cmd.Flags().GetInt("orders")
	cfg.Payments, _ = cmd.Flags().GetInt("payments")
	cfg.Seed, _ = cmd.Flags().GetUint64("seed")

	db := app.db.DB
	repos := persistence.NewRepositories(db)
	scope := persistence.NewGormTransactionScope(db)
	// No subscribers: seeding is not business activity worth auditing
	bus := event.NewInMemoryEventBus(app.log)

	seeder := seed.New(
		masterdata.NewItemService(repos.Items(), scope, bus, app.log),
		masterdata.NewPartyService(repos.Parties(), scope, bus, app.log),
		coordinator.New(scope, bus, app.log),
		app.log,
	)
	sum, err := seeder.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
