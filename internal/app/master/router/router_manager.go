/**
 * 路由:路由管理器
 * @author: sun977
 * @date: 2026.03.19
 * @description: 路由管理器，包含Router结构体、NewRouter函数和SetupRoutes主函数
 * @func:
 */
package router

import (
	"chainmaster/internal/app/master/middleware"
	"chainmaster/internal/config"
	authHandler "chainmaster/internal/handler/auth"
	decisionHandler "chainmaster/internal/handler/decision"
	networkHandler "chainmaster/internal/handler/network"
	systemHandler "chainmaster/internal/handler/system"
	authPkg "chainmaster/internal/pkg/auth"
	"chainmaster/internal/pkg/logger"
	mysqlRepo "chainmaster/internal/repository/mysql"
	redisRepo "chainmaster/internal/repository/redis"
	authService "chainmaster/internal/service/auth"
	decisionService "chainmaster/internal/service/decision"
	networkService "chainmaster/internal/service/network"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Router 路由管理器
type Router struct {
	config            *config.Config
	engine            *gin.Engine
	middlewareManager *middleware.MiddlewareManager
	loginHandler      *authHandler.LoginHandler
	logoutHandler     *authHandler.LogoutHandler
	nodeHandler       *networkHandler.NodeHandler
	demandHandler     *networkHandler.DemandHandler
	cycleHandler      *decisionHandler.CycleHandler
	decisionHandler   *decisionHandler.DecisionHandler
	healthHandler     *systemHandler.HealthHandler
}

// NewRouter 创建路由管理器实例
// 依赖装配遵循 Repository -> Service -> Handler 的层级
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Router {
	// 初始化工具包
	jwtManager := authPkg.NewJWTManager(
		cfg.Security.JWT.Secret,
		cfg.Security.JWT.Issuer,
		cfg.Security.JWT.AccessTokenExpire,
	)
	passwordManager := authPkg.NewPasswordManager(authPkg.DefaultPasswordConfig)

	// 初始化Repository(纯数据访问层)
	userRepo := mysqlRepo.NewUserRepository(db)
	nodeRepo := mysqlRepo.NewNodeRepository(db)
	demandRepo := mysqlRepo.NewDemandRepository(db)
	decisionRepo := mysqlRepo.NewDecisionRepository(db)
	cycleCacheRepo := redisRepo.NewCycleCacheRepository(redisClient)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// 初始化认证服务
	userService := authService.NewUserService(userRepo, passwordManager)
	sessionService := authService.NewSessionService(userService, passwordManager, jwtManager, tokenRepo, userRepo)

	// 初始化网络服务
	nodeService := networkService.NewNodeService(nodeRepo, demandRepo, decisionRepo)
	demandService := networkService.NewDemandService(nodeRepo, demandRepo)

	// 初始化决策服务(周期服务持有跨周期预测历史,全局唯一)
	cycleService := decisionService.NewCycleService(nodeRepo, demandRepo, decisionRepo, cycleCacheRepo, demandService, &cfg.App.Pipeline)
	queryService := decisionService.NewQueryService(decisionRepo, cycleCacheRepo, &cfg.App.Pipeline)

	// 初始化中间件管理器
	middlewareManager := middleware.NewMiddlewareManager(sessionService, &cfg.Security)

	// 初始化处理器(控制器是服务集合,先初始化服务,然后服务装填成控制器)
	loginHdl := authHandler.NewLoginHandler(sessionService)
	logoutHdl := authHandler.NewLogoutHandler(sessionService, userService)
	nodeHdl := networkHandler.NewNodeHandler(nodeService, &cfg.App.Pipeline)
	demandHdl := networkHandler.NewDemandHandler(demandService)
	cycleHdl := decisionHandler.NewCycleHandler(cycleService, queryService)
	decisionHdl := decisionHandler.NewDecisionHandler(queryService)
	healthHdl := systemHandler.NewHealthHandler(db, redisClient, &cfg.App)

	// 创建Gin引擎
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	return &Router{
		config:            cfg,
		engine:            engine,
		middlewareManager: middlewareManager,
		loginHandler:      loginHdl,
		logoutHandler:     logoutHdl,
		nodeHandler:       nodeHdl,
		demandHandler:     demandHdl,
		cycleHandler:      cycleHdl,
		decisionHandler:   decisionHdl,
		healthHandler:     healthHdl,
	}
}

// SetupRoutes 设置全局中间件和路由
// 在这里配置调用各个路由模块
func (r *Router) SetupRoutes() {
	// 1) 先注册全局中间件；2) 再注册各模块路由。
	r.registerGlobalMiddleware()
	r.registerRoutes()
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// registerGlobalMiddleware 注册全局中间件
// 将全局中间件的挂载集中在一个方法中，便于统一管理与测试（只需在此处验证链条顺序）
func (r *Router) registerGlobalMiddleware() {
	logger.WithFields(map[string]interface{}{
		"path":      "router_manager.registerGlobalMiddleware",
		"operation": "register_global_middleware",
	}).Info("开始注册全局中间件")

	// 系统恢复中间件，防止 panic 直接导致进程崩溃
	r.engine.Use(gin.Recovery())

	if r.middlewareManager != nil {
		// 请求ID中间件
		r.engine.Use(r.middlewareManager.GinRequestIDMiddleware())
		// CORS 中间件
		r.engine.Use(r.middlewareManager.GinCORSMiddleware())
		// 安全响应头中间件
		r.engine.Use(r.middlewareManager.GinSecurityHeadersMiddleware())
		// 统一日志中间件
		r.engine.Use(r.middlewareManager.GinLoggingMiddleware())
		// 限流中间件
		r.engine.Use(r.middlewareManager.GinRateLimitMiddleware())
	}

	logger.WithFields(map[string]interface{}{
		"path":      "router_manager.registerGlobalMiddleware",
		"operation": "register_global_middleware",
	}).Info("全局中间件注册完成")
}

// registerRoutes 注册路由
// 将"中间件注册"和"各模块路由注册"的步骤分离，提升可维护性与可测试性
func (r *Router) registerRoutes() {
	logger.WithFields(map[string]interface{}{
		"path":      "router_manager.registerRoutes",
		"operation": "register_routes",
	}).Info("开始注册路由")

	// API 版本路由组：/api/v1
	api := r.engine.Group("/api")
	v1 := api.Group("/v1")

	// 公共路由（不需要认证）
	r.setupPublicRoutes(v1)
	// 用户认证路由（需要 JWT 认证）
	r.setupUserRoutes(v1)
	// 配送网络路由（需要 JWT 认证）
	r.setupNetworkRoutes(v1)
	// 决策管线路由（需要 JWT 认证）
	r.setupDecisionRoutes(v1)

	logger.WithFields(map[string]interface{}{
		"path":      "router_manager.registerRoutes",
		"operation": "register_routes",
	}).Info("路由注册完成")
}
