// salesctl reúne as tarefas operacionais do pipeline: migração, seed,
// importação avulsa de planilhas e emissão de tokens da API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/sales-pipeline/internal/config"
)

var (
	cfg     *config.Config
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "salesctl",
	Short:         "Ferramentas operacionais do pipeline de vendas",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})

		loaded, err := config.NewConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := logrus.ParseLevel(cfg.App.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		if verbose {
			level = logrus.DebugLevel
		}
		logrus.SetLevel(level)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log em nível debug")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "Tempo máximo da operação")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("Comando falhou")
		os.Exit(1)
	}
}

// commandContext aplica o timeout global e cancela em SIGINT/SIGTERM
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func connect(ctx context.Context) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logrus.WithField("schema", conn.Schema()).Debug("Conectado ao PostgreSQL")
	return conn, nil
}
