package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"go-gin-bookshelf/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) Create(b *domain.Book) error { return r.db.Create(b).Error }

// List 默认作用域排除软删记录，按插入顺序返回
func (r *BookRepo) List() ([]domain.Book, error) {
	var books []domain.Book
	if err := r.db.Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	// 空库也要序列化成 []，不能是 null
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// FindByID 连软删的一起查：deleted 只是对列表隐藏
func (r *BookRepo) FindByID(id uint) (*domain.Book, error) {
	var b domain.Book
	err := r.db.Unscoped().First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

// Update 只对未软删的记录生效，命中为 0 行视作不存在。
// 没传的字段不动（零值视作没传），部分更新不会把旧值抹掉
func (r *BookRepo) Update(id uint, title, author string, year *int) (*domain.Book, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if title != "" {
		updates["title"] = title
	}
	if author != "" {
		updates["author"] = author
	}
	if year != nil {
		updates["year"] = year
	}
	res := r.db.Model(&domain.Book{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(id)
}

// SoftDelete 置 deleted_at，返回打标后的记录
func (r *BookRepo) SoftDelete(id uint) (*domain.Book, error) {
	res := r.db.Where("id = ?", id).Delete(&domain.Book{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(id)
}
