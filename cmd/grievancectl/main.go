// Command grievancectl runs migrations, seeds staff accounts and lets
// operators try distribution strategies against a YAML roster offline.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/distribution"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/observability"
	"github.com/campus-transit/grievance-service/internal/persistence"
	"github.com/campus-transit/grievance-service/internal/repository"
	"github.com/campus-transit/grievance-service/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "grievancectl",
		Short:        "Grievance assignment tooling",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd())
	root.AddCommand(createStaffCmd())
	root.AddCommand(previewCmd())
	root.AddCommand(scoreCmd())
	return root
}

// withDatabase loads config and a postgres pool for commands that need one.
func withDatabase(ctx context.Context, fn func(cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	return fn(cfg, pg, logger)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(_ *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
				return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
			})
		},
	}
}

func createStaffCmd() *cobra.Command {
	var (
		in    service.RegisterStaffInput
		role  string
		specs string
	)
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create an active admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = domain.StaffRole(role)
			in.Specializations = splitList(specs)
			return withDatabase(cmd.Context(), func(cfg *config.Config, pg *persistence.Postgres, _ *zap.Logger) error {
				svc := service.NewAuthService(*cfg, repository.NewStaffRepository(pg.PoolHandle()))
				staff, err := svc.RegisterStaff(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", staff.Email, staff.Role, staff.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.StaffRoleOperationsAdmin), "staff role")
	cmd.Flags().IntVar(&in.MaxCapacity, "capacity", 0, "max open grievances (0 uses the configured default)")
	cmd.Flags().StringVar(&specs, "specializations", "", "comma separated grievance categories")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func previewCmd() *cobra.Command {
	var file, strategy string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Distribute a roster's grievances and print the buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := LoadRoster(file)
			if err != nil {
				return err
			}
			s, err := distribution.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			result, err := distribution.Distribute(roster.GrievanceItems(), roster.StaffMembers(), s)
			if err != nil {
				return err
			}
			return printPreview(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML roster file")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(distribution.StrategyBalanced), "balanced, priority_based or category_based")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func scoreCmd() *cobra.Command {
	var (
		file  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the top staff matches for each grievance in a roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := LoadRoster(file)
			if err != nil {
				return err
			}
			return printScores(cmd.OutOrStdout(), roster, limit)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML roster file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "matches per grievance")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printPreview(out io.Writer, result *distribution.Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "strategy: %s\ttotal: %d\n", result.Strategy, result.Total())
	fmt.Fprintln(w, "GRIEVANCE\tSTAFF\tREASON")
	for _, a := range result.Assignments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Grievance.ID, a.StaffID, a.Reason)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STAFF\tCOUNT")
	for _, id := range result.StaffIDs() {
		fmt.Fprintf(w, "%s\t%d\n", id, len(result.Buckets[id]))
	}
	return w.Flush()
}

func printScores(out io.Writer, roster *Roster, limit int) error {
	staff := roster.StaffMembers()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GRIEVANCE\tRANK\tSTAFF\tSCORE\tREASON")
	for _, g := range roster.GrievanceItems() {
		for i, m := range distribution.Recommend(staff, g, limit) {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", g.ID, i+1, m.StaffID, m.Score, m.Reason)
		}
	}
	return w.Flush()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
