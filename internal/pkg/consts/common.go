package consts

const (
	MimePrefixImage = "image"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	HouseTypeNiche     = "niche"
	HouseTypeDesigner  = "designer"
	HouseTypeIndie     = "indie"
	HouseTypeCelebrity = "celebrity"
)

// 行为事件类型, 驱动香调画像打分
const (
	BehaviorEventRating     = "rating"
	BehaviorEventWishlist   = "wishlist"
	BehaviorEventCollection = "collection"
)

const (
	ReviewStatusPending  = 0
	ReviewStatusApproved = 1
	ReviewStatusRejected = 2
)
