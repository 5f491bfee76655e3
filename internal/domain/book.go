package domain

import (
	"time"

	"gorm.io/gorm"
)

// Book 软删：deletedAt 置位后从列表里消失，但按 id 仍可取到
type Book struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Author    string         `gorm:"size:255;not null" json:"author"`
	Year      *int           `json:"year"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (Book) TableName() string { return "books" }

type BookRepository interface {
	Create(b *Book) error
	List() ([]Book, error)
	FindByID(id uint) (*Book, error)
	Update(id uint, title, author string, year *int) (*Book, error)
	SoftDelete(id uint) (*Book, error)
}
