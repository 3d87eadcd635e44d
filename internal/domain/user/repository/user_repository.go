package repository

import (
	"healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/pkg/sequence"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetList(offset, limit int) ([]model.User, int64, error)
	Update(user *model.User) error
	MaxUserID() (string, error)

	// Transaction 在单个数据库事务内执行 fn，fn 收到绑定事务的仓库实例
	// fn 返回错误时整体回滚
	Transaction(fn func(txRepo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("user_id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) Transaction(fn func(txRepo UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

// MaxUserID 读取当前最大用户ID，供顺序ID分配使用
func (r *userRepository) MaxUserID() (string, error) {
	var id string
	err := r.db.Model(&model.User{}).
		Where("user_id LIKE ?", sequence.PrefixUser+"%").
		Select("COALESCE(MAX(user_id), '')").
		Scan(&id).Error
	return id, err
}
