package cmd

import (
	"fmt"

	"learnpulse_backend/internal/app"
	"learnpulse_backend/internal/config"
	"learnpulse_backend/pkg/database"
	"learnpulse_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		migrateOnly, _ := cmd.Flags().GetBool("migrate-only")
		migrate, _ := cmd.Flags().GetBool("migrate")

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 设置迁移标志
		cfg.ForceMigrate = migrate || migrateOnly
		cfg.MigrateOnly = migrateOnly

		logger.InitLogger(cfg)
		defer logger.Log.Sync()
		logger.Log.Info("Logger initialized successfully", zap.String("config", cfg.File))

		// 迁移完成后直接退出
		if cfg.MigrateOnly {
			return runMigrations(cfg)
		}

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		return application.Run()
	},
}

func runMigrations(cfg *config.Config) error {
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Log.Info("数据库迁移完成，退出程序")
	return nil
}

func init() {
	serveCmd.Flags().Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	serveCmd.Flags().Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
}
