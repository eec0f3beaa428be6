package mysql

import (
	"context"

	bookDomain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/book"

	"gorm.io/gorm"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) Create(ctx context.Context, b *bookDomain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) GetByBookID(ctx context.Context, bookID string) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).Where("book_id = ?", bookID).First(&out)
	return &out, res.Error
}
