package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mtss-api/internal/models"
)

// InstrumentRepository reads screening instruments and their indicators.
type InstrumentRepository struct {
	db *sqlx.DB
}

// NewInstrumentRepository constructs the repository.
func NewInstrumentRepository(db *sqlx.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// FindByID returns an instrument. sql.ErrNoRows is returned untouched.
func (r *InstrumentRepository) FindByID(ctx context.Context, id string) (*models.ScreeningInstrument, error) {
	const query = `SELECT id, name, category, description, created_at FROM screening_instruments WHERE id = $1`
	var item models.ScreeningInstrument
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find screening instrument: %w", err)
	}
	return &item, nil
}

// ListIndicators returns every indicator of an instrument ordered by name.
func (r *InstrumentRepository) ListIndicators(ctx context.Context, instrumentID string) ([]models.Indicator, error) {
	const query = `SELECT id, instrument_id, name, cutoff, description, created_at FROM indicators WHERE instrument_id = $1 ORDER BY name ASC`
	var items []models.Indicator
	if err := r.db.SelectContext(ctx, &items, query, instrumentID); err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	return items, nil
}
