package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorRepo interface {
	GetAuthor(ctx context.Context, id uint64) (*model.Author, error)
	LockAuthor(ctx context.Context, id uint64) (*model.Author, error)
}

type authorRepoImpl struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) AuthorRepo {
	return &authorRepoImpl{db: db}
}

func (s *authorRepoImpl) GetAuthor(ctx context.Context, id uint64) (*model.Author, error) {
	var author model.Author
	err := s.db.WithContext(ctx).First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &author, nil
}

// LockAuthor 作者行作为同一作者作品提交的互斥锁，不存在时先补建
func (s *authorRepoImpl) LockAuthor(ctx context.Context, id uint64) (*model.Author, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Author{ID: id}).Error
	if err != nil {
		return nil, err
	}

	var author model.Author
	err = s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}
