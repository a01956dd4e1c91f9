/**
 * 应用启动器:master
 * @author: sun977
 * @date: 2026.03.19
 * @description: 组装配置、日志、数据库、Redis与路由，管理应用生命周期
 * @func: NewApp / GetConfig / GetRouter / Stop
 */
package master

import (
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"chainmaster/internal/app/master/router"
	"chainmaster/internal/config"
	"chainmaster/internal/pkg/database"
	"chainmaster/internal/pkg/logger"
)

// App 应用程序结构体
type App struct {
	config        *config.Config
	loggerManager *logger.LoggerManager
	db            *gorm.DB
	redisClient   *redis.Client
	router        *router.Router
}

// NewApp 创建新的应用程序实例
// 加载配置 -> 初始化日志 -> 连接MySQL/Redis -> 装配路由
func NewApp() (*App, error) {
	// 加载配置(路径和环境可通过环境变量覆盖)
	cfg, err := config.LoadConfig(os.Getenv("CHAINMASTER_CONFIG_PATH"), os.Getenv("CHAINMASTER_ENV"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化日志管理器
	loggerManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	// 初始化MySQL连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}

	// 初始化Redis连接
	redisClient, err := database.NewRedisConnection(&cfg.Database.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	// 装配路由(内部完成仓库/服务/处理器的依赖注入)
	r := router.NewRouter(db, redisClient, cfg)
	r.SetupRoutes()

	// 启动配置热加载监听:日志配置变更无需重启即可生效
	// 监听失败不阻塞启动(例如配置目录不可监听)
	if err := config.StartConfigWatcher(
		os.Getenv("CHAINMASTER_CONFIG_PATH"),
		os.Getenv("CHAINMASTER_ENV"),
		func(oldCfg, newCfg *config.Config) error {
			if oldCfg != nil && oldCfg.Log == newCfg.Log {
				return nil
			}
			return loggerManager.UpdateConfig(&newCfg.Log)
		},
	); err != nil {
		logger.LogSystemEvent("app", "config_watcher", "config watcher not started", logrus.WarnLevel, map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.LogSystemEvent("app", "startup", "application initialized", logrus.InfoLevel, map[string]interface{}{
		"version":   cfg.App.Version,
		"debug":     cfg.App.Debug,
		"timestamp": logger.NowFormatted(),
	})

	return &App{
		config:        cfg,
		loggerManager: loggerManager,
		db:            db,
		redisClient:   redisClient,
		router:        r,
	}, nil
}

// GetConfig 获取应用配置
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *router.Router {
	return a.router
}

// Stop 停止应用程序,停止配置监听并释放数据库和Redis连接
func (a *App) Stop() error {
	var firstErr error

	if err := config.StopConfigWatcher(); err != nil {
		firstErr = fmt.Errorf("failed to stop config watcher: %w", err)
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to close mysql: %w", err)
			}
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close redis: %w", err)
		}
	}

	logger.LogSystemEvent("app", "shutdown", "application stopped", logrus.InfoLevel, map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})

	return firstErr
}
