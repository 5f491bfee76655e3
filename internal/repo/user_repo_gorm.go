package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"go-gin-bookshelf/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error { return r.db.Create(u).Error }

func (r *UserRepo) FindByID(id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) SetRefreshToken(id uint, token string, exp time.Time) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"refresh_token":     token,
		"refresh_token_exp": exp,
	}).Error
}

// ClearRefreshToken 两列一起置空；没有会话时也是成功（登出幂等）
func (r *UserRepo) ClearRefreshToken(id uint) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"refresh_token":     nil,
		"refresh_token_exp": nil,
	}).Error
}
