package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	uuid "github.com/twinj/uuid"

	"labelscope/cache"
	"labelscope/controllers"
	"labelscope/middlewares"
	"labelscope/models"
	"labelscope/utils"
)

// corsMiddleware Use middleware for CORS (Cross-Origin Resource Sharing)
// TODO: This is too broad, cannot expose to the internet!
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Requested-With, Content-Type, Origin, Authorization, Accept, Accept-Encoding"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// requestIDMiddleware Generate a UUID and attach it to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_uuid := uuid.NewV4()
		c.Writer.Header().Set("X-Request-Id", _uuid.String())
		c.Next()
	}
}

// labelTypeRoutes Register the registry endpoints of one label kind under
// its own prefix: the three kinds share all handlers.
func labelTypeRoutes(group *gin.RouterGroup, prefix string, kind models.LabelKind) {
	routes := group.Group(prefix)
	{
		routes.GET("", controllers.ListLabelTypes(kind))
		routes.POST("", controllers.CreateLabelType(kind))
		routes.DELETE("", controllers.BulkDeleteLabelTypes(kind))
		routes.GET("/popular", controllers.PopularLabelTypes(kind))
		routes.POST("/upload", controllers.UploadLabelTypes(kind))
		routes.GET("/:label_id", controllers.FindLabelType)
		routes.PATCH("/:label_id", controllers.UpdateLabelType)
		routes.DELETE("/:label_id", controllers.DeleteLabelType)
	}
}

func main() {
	log.Info("Starting LabelScope...")

	// Generate our config based on the config supplied
	// by the user in the flags
	configPath, debugMode, err := utils.ParseFlags()
	if err != nil {
		log.Fatal(err)
	}
	config, err := utils.NewConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Debug mode enables gin-gonic debug mode
	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	models.ConnectDataBase(config.Database.Driver, config.Database.Dsn)

	// Cache for rendered annotation previews
	previewCache := cache.NewLocalCache(time.Minute)
	defer previewCache.StopCleanup()

	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Version tag to test against
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "v0.1.0",
		})
	})

	// Account endpoints, the only unauthenticated part of the API
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login(config))
	}

	api := r.Group("/api")
	api.Use(middlewares.JwtAuth(config.Auth.Secret))
	v1 := api.Group("/v1")
	{
		v1.GET("/me", controllers.CurrentUser)

		v1.GET("/projects", controllers.FindProjects)
		v1.POST("/projects", controllers.CreateProject)
		v1.GET("/projects/:project_id", controllers.FindProject)
		v1.PATCH("/projects/:project_id", controllers.UpdateProject)
		v1.DELETE("/projects/:project_id", controllers.DeleteProject)

		v1.GET("/projects/:project_id/members", controllers.ListMembers)
		v1.POST("/projects/:project_id/members", controllers.AddMember)
		v1.POST("/projects/:project_id/members/bulk", controllers.BulkProvisionMembers)

		project := v1.Group("/projects/:project_id")
		labelTypeRoutes(project, "/category-types", models.LabelKindCategory)
		labelTypeRoutes(project, "/span-types", models.LabelKindSpan)
		labelTypeRoutes(project, "/relation-types", models.LabelKindRelation)

		project.POST("/examples", controllers.CreateExample)
		project.GET("/examples", controllers.FindExamples)
		project.GET("/examples/:example_id", controllers.FindExample)
		project.DELETE("/examples/:example_id", controllers.DeleteExample)

		// Annotation creation runs through the admissibility gate; a 409
		// means "cannot annotate here" under the project policy.
		example := project.Group("/examples/:example_id")
		{
			example.GET("/annotations", controllers.FindAnnotations)
			example.GET("/preview.png", controllers.AnnotationPreview(previewCache))

			example.POST("/categories", controllers.CreateCategory)
			example.DELETE("/categories/:annotation_id", controllers.DeleteCategory)
			example.POST("/spans", controllers.CreateSpan)
			example.DELETE("/spans/:annotation_id", controllers.DeleteSpan)
			example.POST("/texts", controllers.CreateTextLabel)
			example.DELETE("/texts/:annotation_id", controllers.DeleteTextLabel)
			example.POST("/relations", controllers.CreateRelation)
			example.DELETE("/relations/:annotation_id", controllers.DeleteRelation)
			example.POST("/bounding-boxes", controllers.CreateBoundingBox)
			example.DELETE("/bounding-boxes/:annotation_id", controllers.DeleteBoundingBox)
			example.POST("/segmentations", controllers.CreateSegmentation)
			example.DELETE("/segmentations/:annotation_id", controllers.DeleteSegmentation)
		}

		project.GET("/metrics/category-distribution", controllers.LabelDistribution(models.LabelKindCategory))
		project.GET("/metrics/span-distribution", controllers.LabelDistribution(models.LabelKindSpan))
		project.GET("/metrics/relation-distribution", controllers.LabelDistribution(models.LabelKindRelation))
	}

	addr := fmt.Sprintf(":%s", config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Info("Server exiting")
}
