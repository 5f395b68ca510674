package main

import (
	"github.com/spf13/cobra"

	"github.com/Hypha-Media-UK/rotatr/backend/pkg/database"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移",
	Long: `执行内嵌的数据库迁移。

示例:
  rotactl migrate                 # 应用全部未执行的迁移
  rotactl migrate --rollback 1    # 回滚最近一步`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		sqlDB, err := a.db.DB()
		if err != nil {
			return err
		}
		if rollbackSteps > 0 {
			return database.RollbackMigrations(sqlDB, rollbackSteps, a.logger)
		}
		return database.RunMigrations(sqlDB, a.logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "回滚的迁移步数")
}
