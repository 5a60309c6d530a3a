package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-pipeline/infrastructure/repository"
	"github.com/vfg2006/sales-pipeline/infrastructure/spreadsheet"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing"
	"github.com/vfg2006/sales-pipeline/pkg/utils"
)

var (
	importTable  string
	importPolicy string
)

var importCmd = &cobra.Command{
	Use:   "import [arquivos...]",
	Short: "Importa planilhas; sem argumentos importa a pasta IMPORT_FOLDER",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if importTable != "" {
			cfg.Import.FactTable = importTable
		}
		if importPolicy != "" {
			cfg.Import.UpdatePolicy = importPolicy
		}

		opts, err := cfg.ImportOptions()
		if err != nil {
			return err
		}

		conn, err := connect(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		pipeline, err := importing.NewPipeline(
			spreadsheet.NewExcelReader(),
			repository.NewProjectRepository(conn),
			repository.NewFactRepository(conn),
			opts,
		)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			service := importing.NewService(pipeline, conn, cfg.Import.Folder, opts.Schema).
				WithRetries(cfg.RetryPolicy())
			reports, err := service.ImportFolder(ctx)
			fmt.Println(utils.PrettyJson(reports))
			return err
		}

		// arquivos avulsos não passam pela política de retentativa
		var (
			reports []*domain.RunReport
			errs    []error
		)
		for _, file := range args {
			report, err := pipeline.Run(ctx, file)
			if report != nil {
				reports = append(reports, report)
			}
			if err != nil {
				errs = append(errs, err)
			}
		}

		fmt.Println(utils.PrettyJson(reports))
		return errors.Join(errs...)
	},
}

func init() {
	importCmd.Flags().StringVar(&importTable, "table", "", "Tabela de fatos de destino (padrão: IMPORT_FACT_TABLE)")
	importCmd.Flags().StringVar(&importPolicy, "policy", "", "Política de atualização: overwrite ou sum")
}
