package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/sales-pipeline/infrastructure/migration"
	"github.com/vfg2006/sales-pipeline/infrastructure/repository"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing"
	"github.com/vfg2006/sales-pipeline/internal/usecases/seeding"
	"github.com/vfg2006/sales-pipeline/pkg/utils"
)

var (
	migrateWithSeed  bool
	seedCurrencies   []string
	seedSkipTimeline bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Cria o schema, a tabela de projetos e as tabelas de fatos",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		conn, err := connect(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := migration.Migrate(ctx, conn, conn.Schema()); err != nil {
			return err
		}

		if !migrateWithSeed {
			return nil
		}
		return runSeed(ctx, conn)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Grava os projetos iniciais e o esqueleto mensal zerado",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		conn, err := connect(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		return runSeed(ctx, conn)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateWithSeed, "seed", false, "Executa o seed após a migração")

	for _, c := range []*cobra.Command{migrateCmd, seedCmd} {
		c.Flags().StringSliceVar(&seedCurrencies, "currencies", nil, "Moedas dos projetos iniciais (padrão: IMPORT_DEFAULT_CURRENCY)")
		c.Flags().BoolVar(&seedSkipTimeline, "skip-timeline", false, "Não grava o esqueleto mensal")
	}
}

func runSeed(ctx context.Context, conn *postgres.Connection) error {
	opts, err := cfg.ImportOptions()
	if err != nil {
		return err
	}

	currencies := seedCurrencies
	if len(currencies) == 0 {
		currencies = []string{opts.DefaultCurrency}
	}
	for i, c := range currencies {
		currencies[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	// o esqueleto nunca sobrescreve valores já importados
	writer := importing.NewUpserter(repository.NewFactRepository(conn), opts).WithPolicy(domain.UpdateKeep)
	seeder := seeding.NewService(repository.NewProjectRepository(conn), writer)

	processed, err := seeder.SeedProjects(ctx, seeding.DefaultProjects, currencies...)
	if err != nil {
		return err
	}

	if seedSkipTimeline {
		fmt.Println(utils.PrettyJson(map[string]int{"projects": processed}))
		return nil
	}

	report, err := seeder.SeedTimeline(ctx, cfg.SeedTimeline())
	if err != nil {
		return err
	}

	fmt.Println(utils.PrettyJson(report))
	return nil
}
