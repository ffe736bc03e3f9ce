package main

import (
	"context"
	"fmt"
	"os"

	"pomodoroTracker/internal/app"
	"pomodoroTracker/internal/config"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := serveCmd(&configPath)
	rootCmd := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Pomodoro tracker: задачи, проекты и помидоры по HTTP",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// без подкоманды запускается сервер
		RunE: serve.RunE,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "путь к config.yml")

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(configCmd())
	return rootCmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер и таймер сессий",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			a, err := app.New(cfg).Init(cmd.Context())
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Применить или откатить схему базы данных",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := app.Migrate(cmd.Context(), cfg, args[0]); err != nil {
				return fmt.Errorf("миграция %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "миграция %s выполнена (%s)\n", args[0], cfg.Repository.Type)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Работа с файлом конфигурации",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Записать конфигурацию по умолчанию",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s уже существует, используйте --force", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "конфигурация записана в %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "перезаписать существующий файл")

	cmd.AddCommand(initCmd)
	return cmd
}
