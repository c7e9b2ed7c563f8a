package repository

import (
	"context"
	"database/sql"

	"eventide/internal/database"
	"eventide/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, creator_id, title, description, location, start_time, end_time,
		       capacity, price_minor, status, created_at, updated_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.CreatorID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartTime,
		&event.EndTime,
		&event.Capacity,
		&event.PriceMinor,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}
