package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"

	"github.com/IEC2025/UeabInnovationHub-sub000/cmd/buildCFG"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/mailer"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	run := func(up bool) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			log := zlog.Logger
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			serverCfg := buildCFG.BuildServerConfig(cfg, &log)
			repository, err := openRepository(cfg, &log)
			if err != nil {
				return err
			}
			if up {
				err = repository.MigrateUp(serverCfg.MigrationsPath)
			} else {
				err = repository.MigrateDown(serverCfg.MigrationsPath)
			}
			if err != nil {
				return err
			}
			log.Info().Bool("up", up).Msg("migrations finished")
			return nil
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all migrations", RunE: run(true)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: run(false)},
	)
	return cmd
}

func exportCmd() *cobra.Command {
	var out, query, status, regType string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the registrations CSV report to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := zlog.Logger
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fees, err := buildCFG.BuildFeeConfig(cfg)
			if err != nil {
				return err
			}
			repository, err := openRepository(cfg, &log)
			if err != nil {
				return err
			}

			svc := service.NewService(repository, mailer.NewDispatcher(nil, "", nil, &log), fees, &log)
			report, err := svc.ExportRegistrations(cmd.Context(), model.RegistrationFilter{
				Query:  strings.TrimSpace(query),
				Status: model.Status(status),
				Type:   model.RegistrationType(regType),
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = report.Filename
			}
			if err := os.WriteFile(out, report.Data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			log.Info().Str("file", out).Int("rows", report.Rows).Msg("report written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (defaults to the dated report name)")
	cmd.Flags().StringVar(&query, "q", "", "search name, organisation or email")
	cmd.Flags().StringVar(&status, "status", "", "only this status")
	cmd.Flags().StringVar(&regType, "type", "", "only this registration type")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for admin.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
