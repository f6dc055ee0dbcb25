package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	cache "Sillage/internal/pkg/redis"
	"Sillage/internal/pkg/security"
	"Sillage/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserTestEnv(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)
	require.NoError(t, db.Create(&model.Role{ID: 1, Name: consts.RoleUser}).Error)
	require.NoError(t, db.Create(&model.Role{ID: 2, Name: consts.RoleAdmin}).Error)
	return NewUserService(repository.NewUserRepo(db), repository.NewRoleRepo(db)), db
}

func seedSubscriptionToken(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, cache.SetValue(context.Background(), consts.SubscriptionTokenKey+token, "1"))
}

func registerDTO(username, token string) *dto.RegisterDTO {
	email := username + "@example.com"
	return &dto.RegisterDTO{
		Username:          &username,
		Email:             &email,
		Password:          "correct-horse-battery",
		SubscriptionToken: token,
	}
}

func TestRegister(t *testing.T) {
	svc, db := newUserTestEnv(t)
	ctx := context.Background()

	// 无令牌直接拒绝
	err := svc.Register(ctx, registerDTO("newbie", "nope"))
	assert.ErrorIs(t, err, ErrSubscriptionToken)

	seedSubscriptionToken(t, "golden-ticket")
	require.NoError(t, svc.Register(ctx, registerDTO("newbie", "golden-ticket")))

	var user model.User
	require.NoError(t, db.Where("username = ?", "newbie").First(&user).Error)
	require.NotNil(t, user.Password)
	assert.NotEqual(t, "correct-horse-battery", *user.Password)

	var userRole model.UserRole
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&userRole).Error)
	assert.EqualValues(t, 1, userRole.RoleID)

	// 令牌一次性, 同令牌二次注册失败
	err = svc.Register(ctx, registerDTO("second", "golden-ticket"))
	assert.ErrorIs(t, err, ErrSubscriptionToken)

	// 用户名重复
	seedSubscriptionToken(t, "another-ticket")
	err = svc.Register(ctx, registerDTO("newbie", "another-ticket"))
	assert.ErrorIs(t, err, ErrUserUsernameExist)
}

func TestLogin(t *testing.T) {
	svc, _ := newUserTestEnv(t)
	ctx := context.Background()

	seedSubscriptionToken(t, "ticket")
	require.NoError(t, svc.Register(ctx, registerDTO("collector", "ticket")))

	username := "collector"
	token, err := svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "correct-horse-battery"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	assert.Contains(t, claims.Roles, consts.RoleUser)

	// 邮箱同样可登录
	email := "collector@example.com"
	token, err = svc.Login(ctx, &dto.CredentialDTO{Email: &email, Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "wrong"})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	ghost := "ghost"
	_, err = svc.Login(ctx, &dto.CredentialDTO{Username: &ghost, Password: "whatever"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(ctx, &dto.CredentialDTO{Password: "whatever"})
	assert.ErrorIs(t, err, ErrMissingLoginCredentials)
}

func TestLogin_BannedAndDeleted(t *testing.T) {
	svc, db := newUserTestEnv(t)
	ctx := context.Background()

	seedSubscriptionToken(t, "ticket")
	require.NoError(t, svc.Register(ctx, registerDTO("troublemaker", "ticket")))

	username := "troublemaker"
	require.NoError(t, db.Model(&model.User{}).Where("username = ?", username).Update("is_ban", true).Error)
	_, err := svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, ErrUserBan)

	require.NoError(t, db.Model(&model.User{}).Where("username = ?", username).
		Updates(map[string]interface{}{"is_ban": false, "is_delete": true}).Error)
	_, err = svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBanUser(t *testing.T) {
	svc, db := newUserTestEnv(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin")
	require.NoError(t, db.Create(&model.UserRole{UserID: admin.ID, RoleID: 2}).Error)
	target := seedUser(t, db, "target")

	assert.ErrorIs(t, svc.BanUser(ctx, admin.ID, admin.ID), ErrUserBanSelf)
	assert.ErrorIs(t, svc.BanUser(ctx, target.ID, admin.ID), ErrUserBanAdmin)
	assert.ErrorIs(t, svc.BanUser(ctx, admin.ID, 99999), ErrUserNotFound)

	require.NoError(t, svc.BanUser(ctx, admin.ID, target.ID))
	var banned model.User
	require.NoError(t, db.First(&banned, target.ID).Error)
	assert.True(t, banned.IsBan)

	require.NoError(t, svc.UnBanUser(ctx, admin.ID, target.ID))
	require.NoError(t, db.First(&banned, target.ID).Error)
	assert.False(t, banned.IsBan)
}

func TestChangePassword(t *testing.T) {
	svc, db := newUserTestEnv(t)
	ctx := context.Background()

	seedSubscriptionToken(t, "ticket")
	require.NoError(t, svc.Register(ctx, registerDTO("changer", "ticket")))

	var user model.User
	require.NoError(t, db.Where("username = ?", "changer").First(&user).Error)

	err := svc.UpdatePasswordFromOld(ctx, user.ID, &dto.ChangePasswordDTO{
		OldPassword: "wrong-old", NewPassword: "brand-new-password",
	})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	require.NoError(t, svc.UpdatePasswordFromOld(ctx, user.ID, &dto.ChangePasswordDTO{
		OldPassword: "correct-horse-battery", NewPassword: "brand-new-password",
	}))

	username := "changer"
	_, err = svc.Login(ctx, &dto.CredentialDTO{Username: &username, Password: "brand-new-password"})
	require.NoError(t, err)
}
