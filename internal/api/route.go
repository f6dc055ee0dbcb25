package api

import (
	"Sillage/internal/api/middleware"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.GET("/:user_id/simple", group.UserHandler.GetUserSimpleInfoById)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/:user_id/ban", group.UserHandler.BanUser)
				adminGroup.POST("/:user_id/unban", group.UserHandler.UnbanUser)
			}
		}

		houseGroup := apiGroup.Group("/houses")
		{
			houseGroup.GET("", group.CatalogHandler.ListHouses)
			houseGroup.GET("/:house_id", group.CatalogHandler.GetHouse)

			adminGroup := houseGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("", group.CatalogHandler.CreateHouse)
			}
		}

		perfumeGroup := apiGroup.Group("/perfumes")
		perfumeGroup.Use(middleware.AuthOptionalMiddleware())
		{
			perfumeGroup.GET("", group.CatalogHandler.ListPerfumes)
			perfumeGroup.GET("/latest", group.CatalogHandler.GetLatestPerfumes)
			perfumeGroup.GET("/feed", group.CatalogHandler.GetLatestFeed)
			perfumeGroup.GET("/search", group.CatalogHandler.SearchPerfumes)
			perfumeGroup.GET("/suggest", group.CatalogHandler.GetSuggestions)
			perfumeGroup.GET("/slug/:slug", group.CatalogHandler.GetPerfumeBySlug)
			perfumeGroup.GET("/:perfume_id", group.CatalogHandler.GetPerfume)
			perfumeGroup.GET("/:perfume_id/sellers", group.InventoryHandler.GetPerfumeSellers)
			perfumeGroup.GET("/:perfume_id/rating", group.RatingHandler.GetPerfumeRatingSummary)
			perfumeGroup.GET("/:perfume_id/reviews", group.ReviewHandler.GetPerfumeReviews)

			authGroup := perfumeGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.PUT("/:perfume_id/rating", group.RatingHandler.RatePerfume)
				authGroup.GET("/:perfume_id/rating/self", group.RatingHandler.GetMyRating)
				authGroup.POST("/:perfume_id/reviews", group.ReviewHandler.CreateReview)
			}

			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("", group.CatalogHandler.CreatePerfume)
				adminGroup.PUT("/:perfume_id", group.CatalogHandler.UpdatePerfume)
				adminGroup.PUT("/:perfume_id/notes", group.CatalogHandler.SetPerfumeNotes)
				adminGroup.POST("/:perfume_id/image", group.MediaHandler.UploadPerfumeImage)
				adminGroup.DELETE("/:perfume_id", group.CatalogHandler.DeletePerfume)
			}
		}

		reviewGroup := apiGroup.Group("/reviews")
		reviewGroup.Use(middleware.AuthMiddleware())
		{
			reviewGroup.DELETE("/:review_id", group.ReviewHandler.DeleteReview)

			auditGroup := reviewGroup.Group("")
			auditGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				auditGroup.GET("/pending", group.ReviewHandler.GetPendingReviews)
				auditGroup.PUT("/:review_id/status", group.ReviewHandler.ModerateReview)
			}
		}

		inventoryGroup := apiGroup.Group("/inventory")
		inventoryGroup.Use(middleware.AuthMiddleware())
		{
			inventoryGroup.GET("", group.InventoryHandler.GetMyInventory)
			inventoryGroup.PUT("", group.InventoryHandler.UpsertListing)
			inventoryGroup.DELETE("/:perfume_id", group.InventoryHandler.RemoveListing)
		}

		wishlistGroup := apiGroup.Group("/wishlist")
		wishlistGroup.Use(middleware.AuthMiddleware())
		{
			wishlistGroup.GET("", group.WishlistHandler.GetWishlist)
			wishlistGroup.POST("", group.WishlistHandler.AddToWishlist)
			wishlistGroup.PUT("/:perfume_id/visibility", group.WishlistHandler.SetVisibility)
			wishlistGroup.DELETE("/:perfume_id", group.WishlistHandler.RemoveFromWishlist)
		}

		profileGroup := apiGroup.Group("/scent-profile")
		profileGroup.Use(middleware.AuthMiddleware())
		{
			profileGroup.GET("", group.ScentProfileHandler.GetMyProfile)
			profileGroup.POST("/quiz", group.ScentProfileHandler.SubmitQuiz)
		}

		alertGroup := apiGroup.Group("/alerts")
		alertGroup.Use(middleware.AuthMiddleware())
		{
			alertGroup.GET("", group.AlertHandler.GetAlerts)
			alertGroup.GET("/unread", group.AlertHandler.GetUnreadCount)
			alertGroup.POST("/:alert_id/read", group.AlertHandler.MarkRead)
			alertGroup.POST("/:alert_id/dismiss", group.AlertHandler.Dismiss)
			alertGroup.POST("/dismiss/all", group.AlertHandler.DismissAll)
			alertGroup.GET("/preferences", group.AlertHandler.GetPreferences)
			alertGroup.PUT("/preferences", group.AlertHandler.UpdatePreferences)
		}

		feedbackGroup := apiGroup.Group("/feedback")
		{
			feedbackGroup.GET("/trader/:trader_id", group.FeedbackHandler.GetTraderFeedbacks)
			feedbackGroup.GET("/trader/:trader_id/score", group.FeedbackHandler.GetTraderScore)

			authGroup := feedbackGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.FeedbackHandler.SubmitFeedback)
			}
		}

		submissionGroup := apiGroup.Group("/submissions")
		submissionGroup.Use(middleware.AuthMiddleware())
		{
			submissionGroup.POST("", group.SubmissionHandler.CreateSubmission)
			submissionGroup.GET("/self", group.SubmissionHandler.GetMySubmissions)

			auditGroup := submissionGroup.Group("")
			auditGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				auditGroup.GET("/pending", group.SubmissionHandler.GetPendingSubmissions)
				auditGroup.PUT("/:submission_id/status", group.SubmissionHandler.ReviewSubmission)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
		{
			notificationGroup.POST("/wishlist/run", group.NotificationHandler.TriggerWishlistBatch)
		}

		imGroup := apiGroup.Group("/im")
		{
			imGroup.GET("", group.WSHandler.Connect)
			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/conversation", group.IMHandler.CreateConversation)
				authGroup.POST("/send", group.IMHandler.SendMessage)
				authGroup.GET("/history", group.IMHandler.GetChatHistory)
				authGroup.GET("/list", group.IMHandler.GetConversationList)
				authGroup.POST("/read", group.IMHandler.MarkAsRead)
			}
		}
	}

	return r
}
