package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/controllers"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/services"
)

func main() {
	log.Println("Starting CTRL Market API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := config.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	seeded, err := config.SeedDatabase(config.GetDB())
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	if seeded {
		log.Println("Seed dataset loaded")
	}

	// Image storage is optional: without a bucket the catalog simply
	// has no images and the upload endpoint answers 503.
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Println("Image storage initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, image storage disabled")
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires middleware and the full route table
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", controllers.Signup)
			auth.POST("/login", controllers.Login)
			auth.POST("/logout", middleware.EnsureAuthenticated(cfg), controllers.Logout)
		}

		authenticated := v1.Group("")
		authenticated.Use(middleware.EnsureAuthenticated(cfg))
		{
			authenticated.GET("/users/me", controllers.GetMyProfile)
			authenticated.PUT("/users/me", controllers.UpdateMyProfile)

			admin := authenticated.Group("/users")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("", controllers.ListUsers)
				admin.POST("", controllers.CreateUser)
				admin.GET("/:id", controllers.GetUser)
				admin.PUT("/:id", controllers.UpdateUser)
				admin.DELETE("/:id", controllers.DeleteUser)
			}

			products := authenticated.Group("/products")
			{
				products.GET("", controllers.ListProducts)
				products.GET("/categories", controllers.ListProductCategories)
				products.GET("/:id", controllers.GetProduct)
				products.POST("", controllers.CreateProduct)
				products.PUT("/:id", controllers.UpdateProduct)
				products.DELETE("/:id", controllers.DeleteProduct)
				products.POST("/:id/image", controllers.UploadProductImage)
			}

			orders := authenticated.Group("/orders")
			{
				orders.POST("", controllers.CreateOrder)
				orders.GET("", controllers.ListOrders)
				orders.GET("/:id", controllers.GetOrder)
				orders.POST("/:id/cancel", controllers.CancelOrder)
				orders.POST("/:id/complete", controllers.CompleteOrder)
			}

			requests := authenticated.Group("/service-requests")
			{
				requests.POST("", controllers.CreateServiceRequest)
				requests.GET("", controllers.ListServiceRequests)
				requests.GET("/:id", controllers.GetServiceRequest)
				requests.POST("/:id/assign", controllers.AssignServiceRequest)
				requests.POST("/:id/complete", controllers.CompleteServiceRequest)
				requests.POST("/:id/cancel", controllers.CancelServiceRequest)
				requests.DELETE("/:id", controllers.DeleteServiceRequest)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CTRL Market API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
