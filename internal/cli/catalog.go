package cli

import (
	"fmt"
	"log"

	"business-english-quiz/internal/infra/file"
	"business-english-quiz/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewCatalogCmd groups catalog maintenance commands.
func NewCatalogCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate or import quiz catalogs",
	}
	cmd.AddCommand(newCatalogCheckCmd())
	cmd.AddCommand(newCatalogImportCmd(configPath))
	return cmd
}

func newCatalogCheckCmd() *cobra.Command {
	var path, sheet string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a catalog file (.json, .yaml, .csv, .xlsx)",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := file.NewCatalogLoader(path).WithSheet(sheet).LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items ok\n", path, len(items))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "catalog file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name for .xlsx files")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCatalogImportCmd(configPath *string) *cobra.Command {
	var path, sheet string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the Postgres catalog with the contents of a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			items, err := file.NewCatalogLoader(path).WithSheet(sheet).LoadCatalog(ctx)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewCatalogStore(pool).SaveCatalog(ctx, items); err != nil {
				return err
			}
			log.Printf("imported %d quiz items from %s", len(items), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "catalog file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name for .xlsx files")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
