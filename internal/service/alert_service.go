package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/mail"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"
)

// 同一用户同一香水同类提醒的去重窗口
const alertDedupWindow = 24 * time.Hour

type AlertService interface {
	// 匹配侧: 由库存/心愿单变更内联触发
	CheckWishlistAvailabilityAlerts(ctx context.Context, perfumeID uint64) ([]*model.UserAlert, error)
	CheckDecantInterestAlerts(ctx context.Context, perfumeID, interestedUserID uint64) ([]*model.UserAlert, error)

	// 读侧
	GetAlerts(ctx context.Context, userID uint64, page, pageSize int) (*dto.AlertListDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID, alertID uint64) error
	Dismiss(ctx context.Context, userID, alertID uint64) error
	DismissAll(ctx context.Context, userID uint64) error

	GetPreferences(ctx context.Context, userID uint64) (*model.AlertPreferences, error)
	UpdatePreferences(ctx context.Context, userID uint64, dto *dto.AlertPreferencesDTO) (*model.AlertPreferences, error)
}

type AlertServiceImpl struct {
	alertRepo     repository.AlertRepo
	prefsRepo     repository.AlertPreferencesRepo
	wishlistRepo  repository.WishlistRepo
	inventoryRepo repository.InventoryRepo
	perfumeRepo   repository.PerfumeRepo
	userRepo      repository.UserRepo
}

func NewAlertService(
	alertRepo repository.AlertRepo,
	prefsRepo repository.AlertPreferencesRepo,
	wishlistRepo repository.WishlistRepo,
	inventoryRepo repository.InventoryRepo,
	perfumeRepo repository.PerfumeRepo,
	userRepo repository.UserRepo,
) AlertService {
	return &AlertServiceImpl{
		alertRepo:     alertRepo,
		prefsRepo:     prefsRepo,
		wishlistRepo:  wishlistRepo,
		inventoryRepo: inventoryRepo,
		perfumeRepo:   perfumeRepo,
		userRepo:      userRepo,
	}
}

// CheckWishlistAvailabilityAlerts 心愿单 × 在售货源交叉匹配.
// 每个未通知的心愿单用户至多产生一条提醒, 并落 notified_at
func (s *AlertServiceImpl) CheckWishlistAvailabilityAlerts(ctx context.Context, perfumeID uint64) ([]*model.UserAlert, error) {
	entries, err := s.wishlistRepo.GetUnnotifiedByPerfume(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []*model.UserAlert{}, nil
	}

	listings, err := s.inventoryRepo.GetAvailableByPerfume(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return []*model.UserAlert{}, nil
	}

	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	if perfume == nil {
		return []*model.UserAlert{}, nil
	}

	sellers := make([]model.SellerInfo, 0, len(listings))
	sellerSet := make(map[uint64]struct{}, len(listings))
	for _, listing := range listings {
		sellerSet[listing.UserID] = struct{}{}
		sellers = append(sellers, model.SellerInfo{
			UserID:      listing.UserID,
			DisplayName: listing.User.DisplayName(),
			Price:       listing.Price,
			Available:   listing.Available,
		})
	}

	created := make([]*model.UserAlert, 0)
	for _, entry := range entries {
		// 自己也是卖家时不提醒
		if _, isSeller := sellerSet[entry.UserID]; isSeller {
			continue
		}

		alert, err := s.emitWishlistAlert(ctx, entry, perfume, sellers)
		if err != nil {
			log.WarnContext(ctx, "创建心愿单到货提醒失败",
				"userId", entry.UserID, "perfumeId", perfumeID, "err", err)
			continue
		}
		if alert != nil {
			created = append(created, alert)
		}
	}
	return created, nil
}

func (s *AlertServiceImpl) emitWishlistAlert(ctx context.Context, entry *model.WishlistItem, perfume *model.Perfume, sellers []model.SellerInfo) (*model.UserAlert, error) {
	// 先占坑: 更新不到行说明已被并发通知过
	affected, err := s.wishlistRepo.MarkNotified(ctx, entry.UserID, entry.PerfumeID, time.Now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	prefs, err := s.getOrCreatePreferences(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	if !prefs.WishlistAlertsEnabled {
		return nil, nil
	}

	recent, err := s.alertRepo.GetRecentActiveByKind(ctx, entry.UserID, entry.PerfumeID,
		model.AlertKindWishlistAvailable, time.Now().Add(-alertDedupWindow))
	if err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		return nil, nil
	}

	if err = s.makeRoomForAlert(ctx, entry.UserID, prefs.MaxAlerts); err != nil {
		return nil, err
	}

	alert := &model.UserAlert{
		UserID:    entry.UserID,
		PerfumeID: entry.PerfumeID,
		Kind:      model.AlertKindWishlistAvailable,
		Title:     "心愿单香水有货了",
		Message:   fmt.Sprintf("你关注的 %s 现在有 %d 位藏家可出", perfume.Name, len(sellers)),
		Metadata:  model.AlertMetadata{Sellers: sellers},
	}
	if err = s.alertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}
	s.invalidateUnreadCount(ctx, entry.UserID)

	if prefs.EmailWishlistAlerts {
		s.sendAlertMail(ctx, entry.UserID, alert.Title, alert.Message)
	}
	return alert, nil
}

// CheckDecantInterestAlerts 有人把香水加入心愿单时, 提醒持有该香水的卖家
func (s *AlertServiceImpl) CheckDecantInterestAlerts(ctx context.Context, perfumeID, interestedUserID uint64) ([]*model.UserAlert, error) {
	listings, err := s.inventoryRepo.GetAvailableByPerfume(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return []*model.UserAlert{}, nil
	}

	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	if perfume == nil {
		return []*model.UserAlert{}, nil
	}

	interested, err := s.userRepo.GetUserById(ctx, interestedUserID)
	if err != nil {
		return nil, err
	}
	if interested == nil {
		return []*model.UserAlert{}, nil
	}
	interestedName := interested.DisplayName()

	created := make([]*model.UserAlert, 0)
	for _, listing := range listings {
		if listing.UserID == interestedUserID {
			continue
		}

		alert, err := s.emitDecantAlert(ctx, listing.UserID, perfume, interestedUserID, interestedName)
		if err != nil {
			log.WarnContext(ctx, "创建求购提醒失败",
				"sellerId", listing.UserID, "perfumeId", perfumeID, "err", err)
			continue
		}
		if alert != nil {
			created = append(created, alert)
		}
	}
	return created, nil
}

func (s *AlertServiceImpl) emitDecantAlert(ctx context.Context, sellerID uint64, perfume *model.Perfume, interestedUserID uint64, interestedName string) (*model.UserAlert, error) {
	prefs, err := s.getOrCreatePreferences(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !prefs.DecantAlertsEnabled {
		return nil, nil
	}

	// 同一求购者在窗口期内只提醒一次, 不同求购者各自提醒
	recent, err := s.alertRepo.GetRecentActiveByKind(ctx, sellerID, perfume.ID,
		model.AlertKindDecantInterest, time.Now().Add(-alertDedupWindow))
	if err != nil {
		return nil, err
	}
	for _, existing := range recent {
		if existing.Metadata.InterestedUserID == interestedUserID {
			return nil, nil
		}
	}

	if err = s.makeRoomForAlert(ctx, sellerID, prefs.MaxAlerts); err != nil {
		return nil, err
	}

	alert := &model.UserAlert{
		UserID:    sellerID,
		PerfumeID: perfume.ID,
		Kind:      model.AlertKindDecantInterest,
		Title:     "有人想要你的香水",
		Message:   fmt.Sprintf("%s 把你持有的 %s 加入了心愿单", interestedName, perfume.Name),
		Metadata: model.AlertMetadata{
			InterestedUserID:   interestedUserID,
			InterestedUserName: interestedName,
		},
	}
	if err = s.alertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}
	s.invalidateUnreadCount(ctx, sellerID)

	if prefs.EmailDecantAlerts {
		s.sendAlertMail(ctx, sellerID, alert.Title, alert.Message)
	}
	return alert, nil
}

// makeRoomForAlert 活跃提醒到达上限时撤销最旧的腾出一个位置
func (s *AlertServiceImpl) makeRoomForAlert(ctx context.Context, userID uint64, maxAlerts int) error {
	if maxAlerts <= 0 {
		maxAlerts = model.DefaultMaxAlerts
	}
	count, err := s.alertRepo.CountActive(ctx, userID)
	if err != nil {
		return err
	}
	if count < int64(maxAlerts) {
		return nil
	}
	_, err = s.alertRepo.DismissOldest(ctx, userID, int(count)-maxAlerts+1)
	return err
}

func (s *AlertServiceImpl) GetAlerts(ctx context.Context, userID uint64, page, pageSize int) (*dto.AlertListDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	alerts, err := s.alertRepo.GetActiveAlerts(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	alertDTOs := make([]*dto.AlertDTO, 0, len(alerts))
	for _, alert := range alerts {
		alertDTOs = append(alertDTOs, &dto.AlertDTO{
			ID:        alert.ID,
			PerfumeID: alert.PerfumeID,
			Kind:      alert.Kind,
			Title:     alert.Title,
			Message:   alert.Message,
			Metadata:  alert.Metadata,
			IsRead:    alert.IsRead,
			ReadAt:    alert.ReadAt,
			CreatedAt: alert.CreatedAt,
		})
	}
	return &dto.AlertListDTO{Alerts: alertDTOs, UnreadCount: unread}, nil
}

func (s *AlertServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	key := consts.AlertUnreadCountKey + strconv.FormatUint(userID, 10)
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		if count, err := strconv.ParseInt(value, 10, 64); err == nil {
			return count, nil
		}
	}
	count, err := s.alertRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, count, time.Minute*5)
	return count, nil
}

func (s *AlertServiceImpl) MarkRead(ctx context.Context, userID, alertID uint64) error {
	affected, err := s.alertRepo.MarkRead(ctx, userID, alertID)
	if err != nil {
		return err
	}
	if affected == 0 {
		alert, err := s.alertRepo.GetAlertById(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil || alert.UserID != userID {
			return ErrAlertNotFound
		}
		return nil
	}
	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *AlertServiceImpl) Dismiss(ctx context.Context, userID, alertID uint64) error {
	affected, err := s.alertRepo.Dismiss(ctx, userID, alertID)
	if err != nil {
		return err
	}
	if affected == 0 {
		alert, err := s.alertRepo.GetAlertById(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil || alert.UserID != userID {
			return ErrAlertNotFound
		}
		return nil
	}
	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *AlertServiceImpl) DismissAll(ctx context.Context, userID uint64) error {
	_, err := s.alertRepo.DismissAll(ctx, userID)
	if err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *AlertServiceImpl) GetPreferences(ctx context.Context, userID uint64) (*model.AlertPreferences, error) {
	return s.getOrCreatePreferences(ctx, userID)
}

func (s *AlertServiceImpl) UpdatePreferences(ctx context.Context, userID uint64, prefsDTO *dto.AlertPreferencesDTO) (*model.AlertPreferences, error) {
	prefs, err := s.getOrCreatePreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefsDTO.WishlistAlertsEnabled != nil {
		prefs.WishlistAlertsEnabled = *prefsDTO.WishlistAlertsEnabled
	}
	if prefsDTO.DecantAlertsEnabled != nil {
		prefs.DecantAlertsEnabled = *prefsDTO.DecantAlertsEnabled
	}
	if prefsDTO.EmailWishlistAlerts != nil {
		prefs.EmailWishlistAlerts = *prefsDTO.EmailWishlistAlerts
	}
	if prefsDTO.EmailDecantAlerts != nil {
		prefs.EmailDecantAlerts = *prefsDTO.EmailDecantAlerts
	}
	if prefsDTO.MaxAlerts != nil {
		prefs.MaxAlerts = *prefsDTO.MaxAlerts
	}
	err = s.prefsRepo.SavePreferences(ctx, prefs)
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *AlertServiceImpl) getOrCreatePreferences(ctx context.Context, userID uint64) (*model.AlertPreferences, error) {
	prefs, err := s.prefsRepo.GetByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}
	prefs = model.DefaultAlertPreferences(userID)
	err = s.prefsRepo.CreatePreferences(ctx, prefs)
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *AlertServiceImpl) invalidateUnreadCount(ctx context.Context, userID uint64) {
	_ = redis.DeleteKey(ctx, consts.AlertUnreadCountKey+strconv.FormatUint(userID, 10))
}

// sendAlertMail 邮件降级为尽力而为, 失败只记日志
func (s *AlertServiceImpl) sendAlertMail(ctx context.Context, userID uint64, subject, body string) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil || user == nil || user.Email == nil {
		return
	}
	if err = mail.Send(ctx, *user.Email, subject, body); err != nil {
		log.WarnContext(ctx, "提醒邮件发送失败", "userId", userID, "err", err)
	}
}
