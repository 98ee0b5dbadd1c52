package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hadmin/internal/auth"
	"github.com/hadmin/internal/dept"
	"github.com/hadmin/internal/menu"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/internal/role"
	"github.com/hadmin/internal/token"
	"github.com/hadmin/internal/user"
	pkgAuth "github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/config"
	"github.com/hadmin/pkg/database"
	"github.com/hadmin/pkg/logger"
	"github.com/hadmin/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	if err := config.Init(""); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer database.Close()

	// 初始化Redis
	if err := database.InitRedis(&cfg.Redis); err != nil {
		logger.Fatal("初始化Redis失败", zap.Error(err))
	}
	defer database.CloseRedis()

	// 数据库迁移
	if err := database.AutoMigrate(
		&model.User{},
		&model.Dept{},
		&model.Role{},
		&model.RoleMenu{},
		&model.Menu{},
	); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}
	logger.Info("数据库迁移完成")

	// 创建Fiber应用
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	// 全局中间件
	app.Use(middleware.Recovery())
	app.Use(middleware.Cors())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog())
	app.Use(middleware.ErrorHandler())

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(200).JSON(fiber.Map{
			"status":  "healthy",
			"service": cfg.App.Name,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 会话管理
	jwtManager := pkgAuth.NewJWTManager(&cfg.JWT)
	sessions := token.NewSessionManager(jwtManager, token.NewStore(database.GetRedis()))

	// 控制器
	userRepo := user.NewRepository()
	menuRepo := menu.NewRepository()

	authCtrl := auth.NewController(userRepo, sessions, jwtManager)
	userCtrl := user.NewController(userRepo)
	deptCtrl := dept.NewController(dept.NewRepository(), userRepo.CountByDept)
	roleCtrl := role.NewController(role.NewRepository(), role.NewMenuRepository(), menuRepo, userRepo.CountByRole)
	menuCtrl := menu.NewController(menuRepo)

	// 路由
	api := app.Group("/api/v1")
	requireAuth := authCtrl.RequireAuth()
	authCtrl.RegisterRoutes(api)
	userCtrl.RegisterRoutes(api, requireAuth)
	deptCtrl.RegisterRoutes(api, requireAuth)
	roleCtrl.RegisterRoutes(api, requireAuth)
	menuCtrl.RegisterRoutes(api, requireAuth)

	// 启动服务
	go func() {
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			logger.Fatal("服务启动失败", zap.Error(err))
		}
	}()
	logger.Info("服务已启动", zap.String("addr", cfg.Server.Addr()))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务正在关闭...")
	if err := app.Shutdown(); err != nil {
		logger.Error("服务关闭异常", zap.Error(err))
	}
	logger.Info("服务已退出")
}
