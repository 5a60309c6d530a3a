package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/authenticating"
)

var (
	tokenOperator string
	tokenRole     string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite um bearer token para a API de importação",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := authenticating.NewService(cfg)

		token, err := auth.GenerateToken(tokenOperator, domain.Role(tokenRole), tokenTTL)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOperator, "operator", "", "Nome do operador")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(domain.RoleOperator), "admin, operator ou viewer")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Validade do token")
	_ = tokenCmd.MarkFlagRequired("operator")
}
