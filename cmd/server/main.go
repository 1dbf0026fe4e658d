// Package main 是应用程序的入口点。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autohub-go/internal/chatbot"
	"autohub-go/internal/config"
	"autohub-go/internal/handler"
	"autohub-go/internal/middleware"
	"autohub-go/internal/model"
	"autohub-go/internal/pipeline"
	"autohub-go/internal/repository"
	"autohub-go/internal/service"
	"autohub-go/pkg/database"
	"autohub-go/pkg/es"
	"autohub-go/pkg/feedback"
	"autohub-go/pkg/kafka"
	"autohub-go/pkg/log"
	"autohub-go/pkg/reviews"
	"autohub-go/pkg/storage"
	"autohub-go/pkg/tasks"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、对象存储与 ES
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	listingRepo := repository.NewListingRepository(database.DB)
	dealerRepo := repository.NewDealerRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.RDB)
	similarCacheRepo := repository.NewSimilarCacheRepository(database.RDB)

	// 5. 初始化 Service (依赖注入)
	reviewsClient := reviews.NewClient(cfg.Reviews)
	feedbackClient := feedback.NewClient(cfg.Feedback)
	classifier := chatbot.NewClassifier(cfg.Chatbot)
	listingService := service.NewListingService(listingRepo, similarCacheRepo)
	searchService := service.NewSearchService(es.ESClient, listingRepo)
	conversationService := service.NewConversationService(conversationRepo)
	chatService := service.NewChatService(classifier, searchService, reviewsClient, conversationRepo, cfg.Chatbot.MaxListings)
	feedbackService := service.NewFeedbackService(feedbackClient)

	// 6. 初始化车源同步管道 (Processor)
	processor := pipeline.NewProcessor(listingRepo, similarCacheRepo, cfg.Elasticsearch.IndexName)

	// 7. 启动后台 Kafka 消费者
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7.1 初始化导入 seed 目录下的车源数据（幂等），再通过管道建索引与推荐缓存
	go initSeedListings("seed/listings.json", listingRepo, dealerRepo)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		listings := apiV1.Group("/listings")
		{
			listings.GET("", handler.NewListingHandler(listingService).ListListings)
			listings.GET("/:id", handler.NewListingHandler(listingService).GetListing)
			listings.GET("/:id/similar", handler.NewListingHandler(listingService).GetSimilar)
		}

		apiV1.GET("/search", handler.NewSearchHandler(searchService).SearchListings)
		apiV1.POST("/feedback", handler.NewFeedbackHandler(feedbackService).Submit)
		apiV1.GET("/chat/session/:sessionId", handler.NewConversationHandler(conversationService).GetConversation)
	}

	// Chat 路由 (WebSocket)
	r.GET("/chat/:sessionId", handler.NewChatHandler(chatService).Handle)

	// 启动 HTTP 服务器并实现优雅停机
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}

// initSeedListings 从 JSON 文件导入初始车源数据（幂等）。
// 车源与经销商先落库，再投递同步任务，由管道负责建索引和算推荐。
func initSeedListings(path string, listingRepo repository.ListingRepository, dealerRepo repository.DealerRepository) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Infof("initSeedListings: 文件 '%s' 不存在或不可读，跳过初始化导入", path)
		return
	}

	var listings []model.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		log.Errorf("initSeedListings: 解析 '%s' 失败: %v", path, err)
		return
	}

	imported := 0
	seenDealers := make(map[string]bool)
	for i := range listings {
		l := &listings[i]
		if l.ListingID == "" {
			log.Warnf("initSeedListings: 第 %d 条记录缺少 id，跳过", i)
			continue
		}

		if err := listingRepo.Upsert(l); err != nil {
			log.Errorf("initSeedListings: 写入车源 %s 失败: %v", l.ListingID, err)
			continue
		}

		// 从车源记录派生经销商档案
		if l.DealerID != "" && !seenDealers[l.DealerID] {
			seenDealers[l.DealerID] = true
			dealer := &model.Dealer{
				DealerID:     l.DealerID,
				BusinessName: l.BusinessName,
				SellerType:   l.SellerType,
				City:         l.City,
			}
			if err := dealerRepo.Upsert(dealer); err != nil {
				log.Errorf("initSeedListings: 写入经销商 %s 失败: %v", l.DealerID, err)
			}
		}

		if err := kafka.ProduceListingTask(tasks.ListingSyncTask{Action: tasks.ActionUpsert, ListingID: l.ListingID}); err != nil {
			log.Errorf("initSeedListings: 投递同步任务失败, listingID: %s, error: %v", l.ListingID, err)
			continue
		}
		imported++
	}

	log.Infof("initSeedListings: 导入完成，共处理 %d 条车源", imported)
}
