package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/sochitieu/internal/adapter/repository/sqlite"
	"github.com/iho/sochitieu/internal/backup"
	"github.com/iho/sochitieu/internal/domain"
	"github.com/iho/sochitieu/internal/infrastructure/config"
	"github.com/iho/sochitieu/internal/infrastructure/logger"
	"github.com/iho/sochitieu/internal/usecase"
)

// app bundles the wired use cases behind the CLI commands.
type app struct {
	ledger     *usecase.LedgerUseCase
	categories *usecase.CategoryUseCase
	backups    *usecase.BackupUseCase
	close      func() error
}

func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	ledgerUC := usecase.NewLedgerUseCase(sqlite.NewTransactionRepository(db), log)
	categoryUC := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(db), sqlite.NewULIDGenerator(), log)
	backupUC := usecase.NewBackupUseCase(
		ledgerUC,
		categoryUC,
		backup.NewCodec(),
		backup.NewFileStore(cfg.BackupDir),
		backup.NewReportWriter(cfg.BackupDir),
		log,
	)

	if err := ledgerUC.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	return &app{
		ledger:     ledgerUC,
		categories: categoryUC,
		backups:    backupUC,
		close:      db.Close,
	}, nil
}

func main() {
	var a *app

	rootCmd := &cobra.Command{
		Use:           "sochitieu",
		Short:         "Sổ Chi Tiêu: personal income/expense ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd.Context())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a != nil {
				return a.close()
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		newAddCmd(&a),
		newListCmd(&a),
		newStatsCmd(&a),
		newCategoriesCmd(&a),
		newExportCmd(&a),
		newSummaryCmd(&a),
		newImportCmd(&a),
		newBackupsCmd(&a),
		newWipeCmd(&a),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newAddCmd(a **app) *cobra.Command {
	var (
		amount   string
		typ      string
		category string
		dateStr  string
		note     string
		wallet   string
		tags     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}

			created, err := (*a).ledger.Add(cmd.Context(), domain.TransactionInput{
				Amount:   amt,
				Type:     domain.TransactionType(typ),
				Category: category,
				Date:     date,
				Note:     note,
				Wallet:   wallet,
				Tags:     parseTags(tags),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added transaction #%d (%s %s, %s)\n",
				created.ID, created.Amount.String(), created.Type, created.Date.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "transaction amount (required)")
	cmd.Flags().StringVarP(&typ, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id (required)")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "business date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-text note")
	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "funding wallet label")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newListCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			transactions := (*a).ledger.Transactions()
			if len(transactions) == 0 {
				fmt.Println("Ledger is empty.")
				return nil
			}

			catalog, err := (*a).categories.Catalog(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tNOTE")
			for _, tx := range transactions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					tx.ID,
					tx.Date.Format("2006-01-02"),
					tx.Type,
					tx.Amount.String(),
					domain.LookupCategory(catalog, tx.Category).Label,
					tx.Note,
				)
			}
			return w.Flush()
		},
	}
}

func newStatsCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals, per-category activity and the monthly trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := (*a).ledger.Stats()

			fmt.Printf("Income:  %s\n", stats.TotalIncome.String())
			fmt.Printf("Expense: %s\n", stats.TotalExpense.String())
			fmt.Printf("Balance: %s\n", stats.NetBalance.String())

			if len(stats.ByCategory) > 0 {
				catalog, err := (*a).categories.Catalog(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println("\nBy category:")
				for id, total := range stats.ByCategory {
					fmt.Printf("  %s\t%s\n", domain.LookupCategory(catalog, id).Label, total.String())
				}
			}

			if len(stats.ByMonth) > 0 {
				fmt.Println("\nLast months:")
				for _, m := range stats.ByMonth {
					fmt.Printf("  %s\tincome %s\texpense %s\n", m.Label(), m.Income.String(), m.Expense.String())
				}
			}
			return nil
		},
	}
}

func newCategoriesCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the category catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := (*a).categories.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tKIND\tCUSTOM")
			for _, c := range catalog {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", c.ID, c.Label, c.Kind, c.Custom)
			}
			return w.Flush()
		},
	}

	var (
		label       string
		kind        string
		icon        string
		color       string
		description string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom category",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := (*a).categories.AddCustom(cmd.Context(), domain.CategoryMeta{
				Label:       label,
				Kind:        domain.CategoryKind(kind),
				Icon:        icon,
				Color:       color,
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added category %s (%s)\n", created.ID, created.Label)
			return nil
		},
	}
	addCmd.Flags().StringVar(&label, "label", "", "display label (required)")
	addCmd.Flags().StringVar(&kind, "kind", "expense", "income, expense or common")
	addCmd.Flags().StringVar(&icon, "icon", "tag", "icon token")
	addCmd.Flags().StringVar(&color, "color", "#7F8C8D", "color token")
	addCmd.Flags().StringVar(&description, "description", "", "optional description")
	_ = addCmd.MarkFlagRequired("label")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).categories.RemoveCustom(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed category %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}

func newExportCmd(a **app) *cobra.Command {
	var withReport bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an encrypted backup of the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if withReport {
				result, reportPath, err := (*a).backups.ExportWithReport(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Exported %d transactions to %s\n", result.Count, result.Path)
				fmt.Printf("CSV report written to %s\n", reportPath)
				return nil
			}

			result, err := (*a).backups.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d transactions to %s\n", result.Count, result.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withReport, "with-report", false, "also write the CSV report")
	return cmd
}

func newSummaryCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Write the per-category summary CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := (*a).backups.ExportSummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Summary written to %s\n", path)
			return nil
		},
	}
}

func newImportCmd(a **app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a backup file and merge it into the ledger",
		Long: `Import reads and validates a backup file, shows what it contains and asks
for confirmation before anything is written. Records already present in the
ledger (same amount, type, category, date and note) are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				files, err := (*a).backups.ListBackups()
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return errors.New("no backup files found; pass a file path")
				}
				path = files[0].Path
			}

			doc, err := (*a).backups.Import(cmd.Context(), path)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrCorruptBackup):
					return fmt.Errorf("%s looks corrupted or is not a backup file", path)
				case errors.Is(err, domain.ErrUnrecognizedBackup):
					return fmt.Errorf("%s is not a recognized backup document", path)
				}
				return err
			}

			fmt.Printf("Backup from %s: %d transactions, %d custom categories\n",
				doc.ExportDate.Format("2006-01-02 15:04"), len(doc.Transactions), len(doc.CustomCategories))

			if !yes && !confirm(bufio.NewReader(cmd.InOrStdin()), "Merge into the ledger?") {
				fmt.Println("Import cancelled; ledger untouched.")
				return nil
			}

			result, err := (*a).backups.Merge(cmd.Context(), doc)
			if err != nil {
				return err
			}

			fmt.Printf("Merged: %d imported, %d skipped as duplicates, %d total\n",
				result.Imported, result.Skipped, result.Total)
			if len(result.Errors) > 0 {
				fmt.Printf("%d records failed to import:\n", len(result.Errors))
				for _, e := range result.Errors {
					fmt.Printf("  - %v\n", e)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "merge without asking for confirmation")
	return cmd
}

func newBackupsCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List previously exported backup files, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := (*a).backups.ListBackups()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No backups found.")
				return nil
			}
			for _, f := range files {
				when := "unknown date"
				if !f.ExportedAt.IsZero() {
					when = f.ExportedAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("%s\t%s\n", when, f.Path)
			}
			return nil
		},
	}
}

func newWipeCmd(a **app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every transaction (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(bufio.NewReader(cmd.InOrStdin()), "Delete ALL transactions?") {
				fmt.Println("Wipe cancelled.")
				return nil
			}
			if err := (*a).ledger.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Ledger wiped.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "wipe without asking for confirmation")
	return cmd
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp; empty means
// today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

// parseTags splits a comma-separated tag list, dropping blanks.
func parseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// confirm asks a yes/no question and returns the answer.
func confirm(in *bufio.Reader, question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	line, err := in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	ok, parseErr := strconv.ParseBool(answer)
	if parseErr == nil {
		return ok
	}
	return answer == "y" || answer == "yes"
}
