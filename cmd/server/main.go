// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mgit-community-go/internal/config"
	"mgit-community-go/internal/handler"
	"mgit-community-go/internal/hub"
	"mgit-community-go/internal/middleware"
	"mgit-community-go/internal/model"
	"mgit-community-go/internal/repository"
	"mgit-community-go/internal/service"
	"mgit-community-go/pkg/database"
	"mgit-community-go/pkg/es"
	"mgit-community-go/pkg/kafka"
	"mgit-community-go/pkg/log"
	"mgit-community-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、Elasticsearch 和 Kafka
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.Migrate(&model.ChatMessage{}, &model.Discussion{}, &model.Reply{})
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)
	defer kafka.Close()

	// 4. 初始化 Repository
	messageRepo := repository.NewChatMessageRepository(database.DB)
	discussionRepo := repository.NewDiscussionRepository(database.DB)
	replyRepo := repository.NewReplyRepository(database.DB)
	sessionRepo := repository.NewSessionRepository(database.RDB)

	// 5. 初始化连接注册表和 Service (依赖注入)
	registry := hub.NewHub()
	go registry.Run()

	jwtManager := token.NewJWTManager(cfg.Admin.JWTSecret, time.Duration(cfg.Admin.SessionTTLMinute)*time.Minute)
	searchService := service.NewSearchService(es.ESClient, cfg.Elasticsearch.IndexName)
	chatService := service.NewChatService(messageRepo, registry, cfg.Chat.HistoryLimit)
	discussionService := service.NewDiscussionService(discussionRepo, replyRepo, searchService)
	adminService := service.NewAdminService(sessionRepo, jwtManager, cfg.Admin.PasswordHash, time.Duration(cfg.Admin.SessionTTLMinute)*time.Minute)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	chatHandler := handler.NewChatHandler(chatService, registry, cfg.Chat)
	discussionHandler := handler.NewDiscussionHandler(discussionService, searchService)
	adminHandler := handler.NewAdminHandler(adminService, cfg.Admin)
	usernameHandler := handler.NewUsernameHandler()
	toolsHandler := handler.NewToolsHandler()

	// WebSocket 入口不挂在 API 分组下
	r.GET("/ws/chat", chatHandler.Handle)

	apiV1 := r.Group("/api/v1")
	{
		chat := apiV1.Group("/chat")
		{
			chat.GET("/messages", chatHandler.ListMessages)
		}

		apiV1.GET("/username", usernameHandler.Get)

		discussions := apiV1.Group("/discussions")
		{
			discussions.POST("/create", discussionHandler.Create)
			discussions.POST("/details", discussionHandler.Details)
			discussions.POST("/like", discussionHandler.Like)
			discussions.POST("/reply", discussionHandler.Reply)
			discussions.POST("/reply/like", discussionHandler.LikeReply)
			discussions.POST("/category", discussionHandler.ListByCategory)
			discussions.GET("/recent", discussionHandler.Recent)
			discussions.GET("/category-stats", discussionHandler.CategoryStats)
			discussions.POST("/:id/touch", discussionHandler.Touch)
			discussions.GET("/search", discussionHandler.Search)
		}

		tools := apiV1.Group("/tools")
		{
			tools.POST("/attendance", toolsHandler.Attendance)
			tools.POST("/gpa", toolsHandler.GPA)
			tools.POST("/cgpa/predict", toolsHandler.PredictCGPA)
			tools.POST("/cgpa/required-gpa", toolsHandler.RequiredGPA)
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			admin.GET("/check", adminHandler.Check)
			admin.GET("/logout", adminHandler.Logout)

			// 需要有效管理员会话的路由
			authed := admin.Group("/")
			authed.Use(middleware.AdminAuthMiddleware(adminService, cfg.Admin.CookieName))
			{
				authed.GET("/chat/online", func(c *gin.Context) {
					c.JSON(http.StatusOK, gin.H{"online": registry.ClientCount()})
				})
			}
		}
	}

	// 8. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 先停 HTTP 服务器，再关闭聊天注册表
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	registry.Shutdown()

	log.Info("服务已优雅关闭")
}
