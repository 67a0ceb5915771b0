// seed carga datos iniciales: usuario administrador y catálogo de ítems desde CSV.
//
// Uso:
//
//	go run ./cmd/seed admin --email admin@tienda.co --password secreto123
//	go run ./cmd/seed items catalogo.csv --latin1 --delimiter ';'
//
// El CSV lleva encabezado: name, unit, category, purchase_price, sale_price,
// reorder_level, initial_qty, initial_cost. Solo name es obligatoria.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/infrastructure/importer"
	"github.com/jhoicas/myshop-api/internal/infrastructure/postgres"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
	csvLatin1     bool
	csvDelimiter  string
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Carga de datos iniciales",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Crea el usuario administrador",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		uc := auth.NewAuthUseCase(postgres.NewUserRepository(env.pool), auth.JWTConfig{})
		u, err := uc.RegisterUser(cmd.Context(), dto.RegisterRequest{
			Email:    adminEmail,
			Password: adminPassword,
			Name:     adminName,
			Role:     entity.RoleAdmin,
		})
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			env.log.Warn().Str("email", adminEmail).Msg("el administrador ya existe")
			return nil
		}
		if err != nil {
			return err
		}
		env.log.Info().Str("id", u.ID).Str("email", u.Email).Msg("administrador creado")
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items <archivo.csv>",
	Short: "Importa ítems y su existencia inicial",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delim, size := utf8.DecodeRuneInString(csvDelimiter)
		if size == 0 || size != len(csvDelimiter) {
			return fmt.Errorf("--delimiter debe ser un solo carácter")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("abrir CSV: %w", err)
		}
		defer f.Close()

		rows, err := importer.ParseItems(f, importer.Options{Delimiter: delim, Latin1: csvLatin1})
		if err != nil {
			return err
		}

		env, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		txRunner := postgres.NewTxRunner(env.pool)
		engine := inventory.NewPostingEngine(txRunner, env.log.Component("stock_ledger"))
		res, err := importer.Import(cmd.Context(), rows, txRunner, engine, "seed")
		env.log.Info().Int("items", res.Created).Int("movements", res.Movements).Msg("importación de ítems")
		return err
	},
}

func init() {
	adminCmd.Flags().StringVar(&adminEmail, "email", "", "email del administrador")
	adminCmd.Flags().StringVar(&adminPassword, "password", "", "password (mínimo 8 caracteres)")
	adminCmd.Flags().StringVar(&adminName, "name", "Administrador", "nombre visible")
	_ = adminCmd.MarkFlagRequired("email")
	_ = adminCmd.MarkFlagRequired("password")

	itemsCmd.Flags().BoolVar(&csvLatin1, "latin1", false, "el archivo está en Windows-1252 (exportado desde Excel)")
	itemsCmd.Flags().StringVar(&csvDelimiter, "delimiter", ",", "separador de columnas")

	rootCmd.AddCommand(adminCmd, itemsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
