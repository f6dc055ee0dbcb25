package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/pkg/security"
	"Sillage/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UpdateUserDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	BanUser(ctx context.Context, operatorID, id uint64) error
	UnBanUser(ctx context.Context, operatorID, id uint64) error
	CancelUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	roleRepo repository.RoleRepo
}

func NewUserService(userRepo repository.UserRepo, roleRepo repository.RoleRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	if regDTO.Username == nil && regDTO.Email == nil {
		return ErrMissingLoginCredentials
	}

	// 内测期注册需持有有效的订阅令牌
	key := consts.SubscriptionTokenKey + regDTO.SubscriptionToken
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return err
	}
	if value == "" {
		return ErrSubscriptionToken
	}

	if regDTO.Username != nil {
		findUser, err := s.userRepo.GetUserByUsername(ctx, *regDTO.Username)
		if err != nil {
			return err
		}
		if findUser != nil {
			return ErrUserUsernameExist
		}
	}
	if regDTO.Email != nil {
		findUser, err := s.userRepo.GetUserByEmail(ctx, *regDTO.Email)
		if err != nil {
			return err
		}
		if findUser != nil {
			return ErrUserEmailExist
		}
	}

	user := &model.User{}
	err = copier.Copy(user, &regDTO)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}
	user.Password = &passwordHash

	role := model.UserRole{
		UserID: user.ID,
		RoleID: 1,
	}
	roles := []*model.UserRole{&role}

	err = s.userRepo.CreateUser(ctx, user, &roles)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return ErrUserExist
		}
		return err
	}

	// 令牌一次性消费
	_ = redis.DeleteKey(ctx, key)
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (string, error) {
	user, err := s.findUserByLoginCredentials(ctx, credDTO)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsDelete {
		return "", ErrUserNotFound
	}
	if user.IsBan {
		return "", ErrUserBan
	}
	if user.Password == nil {
		return "", ErrPasswordIncorrect
	}
	err = security.CheckPasswordHash(credDTO.Password, *user.Password)
	if err != nil {
		return "", ErrPasswordIncorrect
	}
	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return "", err
	}
	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	userDTOList := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		userDTOList = append(userDTOList, toUserDTO(user))
	}
	return userDTOList, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, updateDTO *dto.UpdateUserDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	err = copier.CopyWithOption(user, updateDTO, copier.Option{IgnoreEmpty: true})
	if err != nil {
		return err
	}
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil || user.Password == nil {
		return ErrUserNotFound
	}
	err = security.CheckPasswordHash(pwdDTO.OldPassword, *user.Password)
	if err != nil {
		return ErrPasswordIncorrect
	}
	passwordHash, err := security.HashPassword(pwdDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) BanUser(ctx context.Context, operatorID, id uint64) error {
	if operatorID == id {
		return ErrUserBanSelf
	}
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return err
	}
	for _, name := range roleNames {
		if name == consts.RoleAdmin {
			return ErrUserBanAdmin
		}
	}
	_, err = s.userRepo.UpdateUserIsBan(ctx, id, true)
	return err
}

func (s *UserServiceImpl) UnBanUser(ctx context.Context, operatorID, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	_, err = s.userRepo.UpdateUserIsBan(ctx, id, false)
	return err
}

func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.DeleteUser(ctx, id)
}

func (s *UserServiceImpl) findUserByLoginCredentials(ctx context.Context, dto *dto.CredentialDTO) (*model.User, error) {
	if dto.Username != nil && *dto.Username != "" {
		return s.userRepo.GetUserByUsername(ctx, *dto.Username)
	}
	if dto.Email != nil && *dto.Email != "" {
		return s.userRepo.GetUserByEmail(ctx, *dto.Email)
	}
	return nil, ErrMissingLoginCredentials
}

func (s *UserServiceImpl) getRoleNamesForUser(ctx context.Context, user *model.User) ([]string, error) {
	if len(user.UserRoles) == 0 {
		return []string{}, nil
	}
	roleIDs := make([]uint64, 0, len(user.UserRoles))
	for _, role := range user.UserRoles {
		roleIDs = append(roleIDs, role.RoleID)
	}
	roles, err := s.roleRepo.GetRoleByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		return nil, UnExpectedError
	}
	roleNames := make([]string, 0, len(*roles))
	for _, role := range *roles {
		roleNames = append(roleNames, role.Name)
	}
	return roleNames, nil
}

func toUserDTO(user *model.User) *dto.UserDTO {
	createdAt := user.CreatedAt
	return &dto.UserDTO{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DisplayName: user.DisplayName(),
		CreatedAt:   &createdAt,
	}
}
