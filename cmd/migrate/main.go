/*
*
  - 数据库迁移工具
  - @author: sun977
  - @date: 2026.03.19
  - @description: 数据库模型迁移和初始数据填充工具
  - @usage: go run main.go -env=test -seed=true -drop=true
    -drop
    是否先删除表（危险操作）
    -env string
    环境标识 (test, dev, prod) (default "test")
    -seed
    是否填充初始数据 (default true)
    -verbose
    是否显示详细日志

示例:
main.exe -env=test -seed=true    # 测试环境迁移并填充数据
main.exe -env=prod -seed=false   # 生产环境仅迁移表结构
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"chainmaster/internal/config"
	"chainmaster/internal/model"
	"chainmaster/internal/model/decision"
	"chainmaster/internal/model/network"
	"chainmaster/internal/pkg/auth"
	"chainmaster/internal/pkg/database"
	"chainmaster/internal/pkg/logger"
	mysqlRepo "chainmaster/internal/repository/mysql"
	networkService "chainmaster/internal/service/network"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateOptions 迁移选项配置
type MigrateOptions struct {
	Environment string // 环境标识: test, dev, prod
	SeedData    bool   // 是否填充初始数据
	DropFirst   bool   // 是否先删除表（危险操作）
	Verbose     bool   // 是否显示详细日志
}

// DataSeeder 初始数据填充器
type DataSeeder struct {
	db  *gorm.DB
	env string
	log *logger.LoggerManager
}

func main() {
	// 解析命令行参数
	opts := parseFlags()

	// 加载配置
	cfg, err := config.LoadConfig("", opts.Environment)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 初始化日志管理器
	logManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	logManager.GetLogger().WithFields(logrus.Fields{
		"path":        "cmd/migrate/main.go",
		"operation":   "database_migration",
		"option":      "migrate.start",
		"func_name":   "main",
		"environment": opts.Environment,
		"seed_data":   opts.SeedData,
		"drop_first":  opts.DropFirst,
	}).Info("开始数据库迁移")

	// 初始化数据库连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "database_connection",
			"option":    "database.NewMySQLConnection",
			"func_name": "main",
			"error":     err.Error(),
		}).Fatal("数据库连接失败")
	}

	// 执行迁移
	if err := performMigration(db, opts, logManager); err != nil {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "database_migration",
			"option":    "performMigration",
			"func_name": "main",
			"error":     err.Error(),
		}).Fatal("数据库迁移失败")
	}

	logManager.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "database_migration",
		"option":    "migrate.complete",
		"func_name": "main",
	}).Info("数据库迁移完成")
}

// parseFlags 解析命令行参数
func parseFlags() *MigrateOptions {
	opts := &MigrateOptions{}

	flag.StringVar(&opts.Environment, "env", "test", "环境标识 (test, dev, prod)")
	flag.BoolVar(&opts.SeedData, "seed", true, "是否填充初始数据")
	flag.BoolVar(&opts.DropFirst, "drop", false, "是否先删除表（危险操作）")
	flag.BoolVar(&opts.Verbose, "verbose", false, "是否显示详细日志")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ChainMaster 数据库迁移工具\n\n")
		fmt.Fprintf(os.Stderr, "用法: %s [选项]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n示例:\n")
		fmt.Fprintf(os.Stderr, "  %s -env=test -seed=true    # 测试环境迁移并填充数据\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -env=prod -seed=false   # 生产环境仅迁移表结构\n", os.Args[0])
	}

	flag.Parse()
	return opts
}

// performMigration 执行数据库迁移
func performMigration(db *gorm.DB, opts *MigrateOptions, logManager *logger.LoggerManager) error {
	// 1. 删除表（如果指定）
	if opts.DropFirst {
		if err := dropTables(db, logManager); err != nil {
			return fmt.Errorf("删除表失败: %w", err)
		}
	}

	// 2. 执行模型迁移
	if err := migrateModels(db, logManager); err != nil {
		return fmt.Errorf("模型迁移失败: %w", err)
	}

	// 3. 填充初始数据（如果指定）
	if opts.SeedData {
		seeder := NewDataSeeder(db, opts.Environment, logManager)
		if err := seeder.SeedAll(); err != nil {
			return fmt.Errorf("数据填充失败: %w", err)
		}
	}

	return nil
}

// dropTables 删除所有表
// 危险操作，仅用于开发环境重置
func dropTables(db *gorm.DB, logManager *logger.LoggerManager) error {
	logManager.GetLogger().Warn("正在删除所有表...")

	tables := []interface{}{
		&decision.AgentDecision{},
		&network.DemandRecord{},
		&network.NetworkNode{},
		&model.User{},
	}

	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("删除表 %T 失败: %w", table, err)
		}
		logManager.GetLogger().WithField("table", fmt.Sprintf("%T", table)).Info("表删除成功")
	}

	return nil
}

// migrateModels 执行所有模型的自动迁移
func migrateModels(db *gorm.DB, loggerMgr *logger.LoggerManager) error {
	loggerMgr.GetLogger().Info("开始执行模型迁移...")

	// 定义所有需要迁移的模型
	models := []interface{}{
		// 用户模块
		&model.User{},

		// 配送网络模块
		&network.NetworkNode{},
		&network.DemandRecord{},

		// 决策模块
		&decision.AgentDecision{},
	}

	// 执行自动迁移
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("迁移模型 %T 失败: %w", m, err)
		}
		loggerMgr.GetLogger().WithField("model", fmt.Sprintf("%T", m)).Info("模型迁移成功")
	}

	loggerMgr.GetLogger().Info("所有模型迁移完成")
	return nil
}

// NewDataSeeder 创建数据填充器
func NewDataSeeder(db *gorm.DB, env string, logManager *logger.LoggerManager) *DataSeeder {
	return &DataSeeder{
		db:  db,
		env: env,
		log: logManager,
	}
}

// SeedAll 填充所有初始数据
func (s *DataSeeder) SeedAll() error {
	s.log.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "data_seeding",
		"option":    "SeedAll",
		"func_name": "DataSeeder.SeedAll",
		"env":       s.env,
	}).Info("开始填充初始数据")

	if err := s.seedAdminUser(); err != nil {
		return fmt.Errorf("填充管理员用户失败: %w", err)
	}

	if err := s.seedSampleNetwork(); err != nil {
		return fmt.Errorf("填充示例配送网络失败: %w", err)
	}

	s.log.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "data_seeding",
		"option":    "SeedAll.complete",
		"func_name": "DataSeeder.SeedAll",
	}).Info("初始数据填充完成")

	return nil
}

// seedAdminUser 创建默认管理员账号(已存在则跳过)
func (s *DataSeeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return fmt.Errorf("查询管理员账号失败: %w", err)
	}
	if count > 0 {
		s.log.GetLogger().Info("管理员账号已存在,跳过填充")
		return nil
	}

	password := config.GetEnvString("ADMIN_PASSWORD", "ChainMaster@2026")

	passwordManager := auth.NewPasswordManager(auth.DefaultPasswordConfig)
	hashed, err := passwordManager.HashPassword(password)
	if err != nil {
		return fmt.Errorf("管理员密码加密失败: %w", err)
	}

	admin := &model.User{
		Username: "admin",
		Password: hashed,
		Nickname: "系统管理员",
		Status:   model.UserStatusEnabled,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return fmt.Errorf("创建管理员账号失败: %w", err)
	}

	s.log.GetLogger().WithField("username", admin.Username).Info("管理员账号创建成功")
	return nil
}

// seedSampleNetwork 初始化示例配送网络(复用节点服务,按编码幂等)
func (s *DataSeeder) seedSampleNetwork() error {
	nodeRepo := mysqlRepo.NewNodeRepository(s.db)
	demandRepo := mysqlRepo.NewDemandRepository(s.db)
	decisionRepo := mysqlRepo.NewDecisionRepository(s.db)
	nodeService := networkService.NewNodeService(nodeRepo, demandRepo, decisionRepo)

	result, err := nodeService.InitializeNetwork(context.Background())
	if err != nil {
		return err
	}

	s.log.GetLogger().WithFields(logrus.Fields{
		"created": result.Created,
		"updated": result.Updated,
		"total":   result.Total,
	}).Info("示例配送网络初始化完成")
	return nil
}
