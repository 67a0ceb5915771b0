// migrate aplica o revierte el esquema PostgreSQL embebido en el binario.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down --steps 1
//	go run ./cmd/migrate version
//
// La conexión se toma de DATABASE_URL o de DB_HOST/DB_PORT/... (ver pkg/config).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/myshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/myshop-api/pkg/config"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

var downSteps int

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Migraciones del esquema PostgreSQL",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *postgres.Migrator, log *logger.Logger) error {
			if err := m.Up(); err != nil {
				return err
			}
			return reportVersion(m, log, "migraciones aplicadas")
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte migraciones (--steps 0 revierte todas)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *postgres.Migrator, log *logger.Logger) error {
			if err := m.Down(downSteps); err != nil {
				return err
			}
			return reportVersion(m, log, "migraciones revertidas")
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión aplicada del esquema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *postgres.Migrator, log *logger.Logger) error {
			return reportVersion(m, log, "versión del esquema")
		})
	},
}

func init() {
	downCmd.Flags().IntVar(&downSteps, "steps", 1, "número de migraciones a revertir")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func withMigrator(fn func(m *postgres.Migrator, log *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	m, err := postgres.NewMigrator(cfg.DB.MigrationURL())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m, log)
}

func reportVersion(m *postgres.Migrator, log *logger.Logger, msg string) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg(msg)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
