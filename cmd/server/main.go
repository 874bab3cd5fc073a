package main

import (
	"log"
	"strconv"
	"time"

	"wanderhub/config"
	"wanderhub/controllers"
	"wanderhub/db"
	"wanderhub/routes"
	"wanderhub/services"
	"wanderhub/store"
	ws "wanderhub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.prod.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	// Redis backs trending scores and rate limits; the server degrades
	// gracefully without it.
	if cfg.Redis.Addr != "" {
		if err := db.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("Redis unavailable, continuing without it: %v", err)
		} else {
			log.Println("Connected to Redis")
		}
	}

	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	st := store.NewMongo(db.MongoDatabase)

	notifications := services.NewNotificationService(st)
	trending := services.NewTrendingService(db.RedisClient, st)
	engagement := services.NewEngagementService(st, notifications, trending)
	users := services.NewUserService(st)
	content := services.NewContentService(st)
	search := services.NewSearchService(st)
	saves := services.NewSaveService(st)

	inboxStream := ws.NewInboxStream(notifications, cfg.JWT.Secret)
	notifications.SetInboxNotifier(inboxStream)
	commentStream := ws.NewCommentStream(engagement)
	engagement.SetCommentPublisher(commentStream)

	tokenTTL := time.Duration(cfg.JWT.ExpiryMinutes) * time.Minute
	routes.Setup(router, routes.Controllers{
		Auth:          controllers.NewAuthController(users, cfg.JWT.Secret, tokenTTL),
		Content:       controllers.NewContentController(content, trending),
		Engagement:    controllers.NewEngagementController(engagement),
		Notifications: controllers.NewNotificationController(notifications),
		Search:        controllers.NewSearchController(search),
		Saves:         controllers.NewSaveController(saves),
		Profile:       controllers.NewProfileController(users),
		InboxStream:   inboxStream,
		CommentStream: commentStream,
	}, cfg.JWT.Secret, db.RedisClient)

	return router
}
