package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/handlers"
	"github.com/swapcloset/swapcloset-golang/internal/middleware"
)

// CORSMiddleware lets the web frontend talk to the API. The allowed
// origin comes from FRONTEND_ORIGIN so staging and local dev can differ.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("FRONTEND_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	// Uploaded item images are served straight off disk.
	router.Static("/uploads", "./uploads")

	v1 := router.Group("/v1")
	{
		// --- Public Routes ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)
		v1.GET("/shop", h.GetShop)

		// --- Member Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			// --- Submissions ---
			auth.POST("/items", h.CreateSubmission)
			auth.GET("/items/me", h.GetMyItems)
			auth.DELETE("/items/:id", h.DeleteMyItem)

			// --- Wallet ---
			auth.GET("/wallet", h.GetMyWallet)
			auth.POST("/wallet/topup", h.ManualTopUp)

			// --- Notifications ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)

			// --- Image Uploads ---
			auth.POST("/upload", h.UploadImages)
		}

		// --- Staff Routes (Staff or Administrator) ---
		staff := v1.Group("/staff")
		staff.Use(middleware.AuthMiddleware(), middleware.StaffMiddleware(h.DB))
		{
			// --- Submission Review ---
			staff.GET("/submissions", h.GetSubmissions)
			staff.GET("/submissions/:id", h.GetSubmission)
			staff.PATCH("/submissions/:id/approve", h.ApproveSubmission)
			staff.PATCH("/submissions/:id/reject", h.RejectSubmission)
			staff.POST("/submissions/batch-approve", h.BatchApproveSubmissions)
			staff.POST("/submissions/:id/convert", h.ConvertSubmission)

			// --- Catalog Management ---
			staff.GET("/catalog", h.GetCatalog)
			staff.POST("/catalog", h.CreateCatalogItem)
			staff.PUT("/catalog/:id", h.UpdateCatalogItem)
			staff.PATCH("/catalog/:id/stock", h.AdjustStock)
			staff.PATCH("/catalog/:id/active", h.SetCatalogItemActive)
			staff.DELETE("/catalog/:id", h.DeleteCatalogItem)

			// --- Live Dashboard Views ---
			staff.GET("/views/:name", h.GetLiveView)
		}

		// --- Admin Routes (Administrator Only) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware(h.DB))
		{
			admin.POST("/create-staff", h.CreateStaff)
		}
	}

	return router
}
