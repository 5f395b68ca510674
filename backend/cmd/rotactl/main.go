// rotactl 运维命令行：迁移、种子数据、告警生成、排班查询与导出
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/service"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/database"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/jwt"
	applogger "github.com/Hypha-Media-UK/rotatr/backend/pkg/logger"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/redis"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "rotactl",
	Short:         "Rotatr 运维命令行",
	Long:          `搬运工排班系统的运维工具：数据库迁移、种子数据导入、人手告警生成、排班查询与总览导出。`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// ── 依赖装配 ──

// app 单次命令执行所需的依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	repo   *repository.Repository
	svc    *service.Service
}

// bootstrap 加载配置并连接数据库；withRedis 为 true 时尝试连接 Redis，失败降级
func bootstrap(withRedis bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log, "rotactl")
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, db: db}
	if withRedis {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，按无缓存模式运行", zap.Error(err))
		} else {
			a.rdb = rdb
		}
	}

	a.repo = repository.NewRepository(db)
	a.svc = service.NewService(cfg, a.repo, jwt.NewManager(&cfg.Auth), a.rdb, logger)
	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.logger.Sync()
}
