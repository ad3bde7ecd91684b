package main

import (
	"os"

	"blogapi/config"
	"blogapi/controllers"
	"blogapi/database"
	"blogapi/handlers"
	"blogapi/logger"
	"blogapi/middleware"
	"blogapi/routes"
	"blogapi/services"
	"blogapi/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "blogapi/docs"
)

// @title Blog API
// @version 1.0
// @description Blog backend: posts, categories, tags, comments, analytics and recommendations.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Log.Warnf("Error loading .env file: %v", err)
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.ErrorWithFields("failed to connect to database", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.ErrorWithFields("failed to migrate database", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	emailService := services.NewEmailService(services.NewMailer(cfg), cfg.FrontendURL)
	hubService := services.NewHubService()
	userService := services.NewUserService(db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	routes.SetupRoutes(r, jwtManager, userService, routes.Handlers{
		Auth:      controllers.NewAuthController(db, jwtManager, emailService),
		Users:     controllers.NewUserController(db),
		Posts:     controllers.NewPostController(db, cfg.PageSize, hubService),
		Comments:  controllers.NewCommentController(db, hubService),
		Taxonomy:  controllers.NewTaxonomyController(db),
		Stats:     controllers.NewStatsController(db),
		WebSocket: handlers.NewWebSocketHandler(hubService, cfg.CORSAllowedOrigins),
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.InfoWithFields("server starting", logger.Fields{
		"port":    cfg.Port,
		"driver":  cfg.DBDriver,
		"swagger": "http://localhost:" + cfg.Port + "/swagger/index.html",
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.ErrorWithFields("server stopped", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
}
