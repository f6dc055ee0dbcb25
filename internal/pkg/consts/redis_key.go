package consts

const (
	PerfumeDetailKey      = "perfume:detail:"
	PerfumeListKey        = "perfume:list:"
	HouseDetailKey        = "house:detail:"
	HouseListKey          = "house:list"
	PerfumeRatingKey      = "perfume:rating:"
	TraderScoreKey        = "trader:score:"
	SubscriptionTokenKey  = "subscription:token:"
	AlertUnreadCountKey   = "alert:unread:count:"
	IMConversationKey     = "im:conversation:"
	IMUserKey             = "im:user:"
)

const (
	WishlistNotificationLock = "lock:wishlist:notification"
	SubmissionApproveLock    = "lock:submission:approve:"
)
