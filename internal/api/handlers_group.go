package api

import "Sillage/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	CatalogHandler      *handler.CatalogHandler
	MediaHandler        *handler.MediaHandler
	InventoryHandler    *handler.InventoryHandler
	WishlistHandler     *handler.WishlistHandler
	RatingHandler       *handler.RatingHandler
	ReviewHandler       *handler.ReviewHandler
	ScentProfileHandler *handler.ScentProfileHandler
	AlertHandler        *handler.AlertHandler
	FeedbackHandler     *handler.FeedbackHandler
	SubmissionHandler   *handler.SubmissionHandler
	NotificationHandler *handler.NotificationHandler
	IMHandler           *handler.IMHandler
	WSHandler           *handler.WsHandler
}
