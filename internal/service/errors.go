package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserBanSelf             = errors.New("不能封禁自己")
	ErrUserBanAdmin            = errors.New("不能封禁管理员")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrUserEmailExist          = errors.New("邮箱已注册")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrSubscriptionToken       = errors.New("订阅令牌无效")
	ErrHouseNotFound           = errors.New("品牌不存在")
	ErrHouseExist              = errors.New("品牌已存在")
	ErrPerfumeNotFound         = errors.New("香水不存在")
	ErrPerfumeExist            = errors.New("香水已存在")
	ErrNoteNotFound            = errors.New("香调不存在")
	ErrListingNotFound         = errors.New("持有记录不存在")
	ErrListingInvalid          = errors.New("可出量不能超过持有量")
	ErrWishlistExist           = errors.New("已在心愿单中")
	ErrWishlistNotFound        = errors.New("心愿单条目不存在")
	ErrRatingInvalid           = errors.New("评分必须在 1-5 之间")
	ErrReviewNotFound          = errors.New("评论不存在")
	ErrReviewSensitive         = errors.New("评论包含敏感内容")
	ErrAlertNotFound           = errors.New("提醒不存在")
	ErrFeedbackSelf            = errors.New("不能评价自己")
	ErrSubmissionNotFound      = errors.New("提报不存在")
	ErrSubmissionReviewed      = errors.New("提报已审核")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrTargetUserInvalid       = errors.New("目标用户无效")
	ErrConversation            = errors.New("会话异常")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserBanSelf:             Unauthorized,
	ErrUserBanAdmin:            Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrUserEmailExist:          BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrSubscriptionToken:       Unauthorized,
	ErrHouseNotFound:           NotFound,
	ErrHouseExist:              BadRequest,
	ErrPerfumeNotFound:         NotFound,
	ErrPerfumeExist:            BadRequest,
	ErrNoteNotFound:            NotFound,
	ErrListingNotFound:         NotFound,
	ErrListingInvalid:          BadRequest,
	ErrWishlistExist:           BadRequest,
	ErrWishlistNotFound:        NotFound,
	ErrRatingInvalid:           BadRequest,
	ErrReviewNotFound:          NotFound,
	ErrReviewSensitive:         BadRequest,
	ErrAlertNotFound:           NotFound,
	ErrFeedbackSelf:            BadRequest,
	ErrSubmissionNotFound:      NotFound,
	ErrSubmissionReviewed:      BadRequest,
	ErrFileNotSupported:        BadRequest,
	ErrTargetUserInvalid:       BadRequest,
	ErrConversation:            BadRequest,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
