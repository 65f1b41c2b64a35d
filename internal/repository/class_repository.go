package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mtss-api/internal/models"
)

// ClassRepository reads classes and curriculum contents.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a class. sql.ErrNoRows is returned untouched.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := r.db.GetContext(ctx, &class, `SELECT id, name, created_at FROM classes WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// FindContentByID returns a content item. sql.ErrNoRows is returned untouched.
func (r *ClassRepository) FindContentByID(ctx context.Context, id string) (*models.Content, error) {
	var content models.Content
	if err := r.db.GetContext(ctx, &content, `SELECT id, title, created_at FROM contents WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return &content, nil
}
