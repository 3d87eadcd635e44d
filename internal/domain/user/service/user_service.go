package service

import (
	"errors"

	"healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/internal/pkg/config"
	"healthcare_booking/internal/pkg/sequence"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户服务接口
type UserService interface {
	Register(email, password, fullName, phone string) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
	GetUser(id string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
	UpdateProfile(id, fullName, phone string) (*model.User, error)
	DeleteUser(id string) error
}

// userService 实现
type userService struct {
	repo   repository.UserRepository
	jwtCfg config.JWTConfig
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, jwtCfg config.JWTConfig) UserService {
	return &userService{repo: repo, jwtCfg: jwtCfg}
}

// Register 注册账号
// 用户ID在同一事务内分配并插入，并发注册不会产生重复ID
func (s *userService) Register(email, password, fullName, phone string) (*model.User, error) {
	// 1. 重复账号检查
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, apperr.Conflict("account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check existing account", err)
	}

	// 2. 密码哈希
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	// 3. 事务内分配ID并插入
	var user *model.User
	err = s.repo.Transaction(func(txRepo repository.UserRepository) error {
		maxID, err := txRepo.MaxUserID()
		if err != nil {
			return err
		}

		user = &model.User{
			UserID:   sequence.Next(sequence.PrefixUser, maxID, sequence.DefaultWidth),
			Email:    email,
			Password: string(hashed),
			FullName: fullName,
			Phone:    phone,
			Role:     model.RoleUser,
			Status:   model.StatusNormal,
		}
		return txRepo.Create(user)
	})
	if err != nil {
		return nil, apperr.Internal("failed to create account", err)
	}

	return user, nil
}

// Login 登录，返回 JWT Token
func (s *userService) Login(email, password string) (string, *model.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.Auth("invalid email or password")
		}
		return "", nil, apperr.Internal("failed to query account", err)
	}

	if user.Status == model.StatusDeleted {
		return "", nil, apperr.Auth("account has been deleted")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.Auth("invalid email or password")
	}

	token, _, err := utils.GenerateToken(s.jwtCfg.Secret, user.UserID, user.Role, s.jwtCfg.Expire)
	if err != nil {
		return "", nil, apperr.Internal("failed to generate token", err)
	}

	return token, user, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to query user", err)
	}
	return user, nil
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	users, total, err := s.repo.GetList(offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}
	return users, total, nil
}

// UpdateProfile 更新用户资料
func (s *userService) UpdateProfile(id, fullName, phone string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	user.Phone = phone

	if err := s.repo.Update(user); err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	return user, nil
}

// DeleteUser 删除用户（软删除，标记为已注销）
func (s *userService) DeleteUser(id string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	user.Status = model.StatusDeleted
	if err := s.repo.Update(user); err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	return nil
}
