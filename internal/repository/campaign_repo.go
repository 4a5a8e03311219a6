package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ecomcore/storefront/internal/models"
)

type CampaignRepo struct {
	db *sql.DB
}

func NewCampaignRepo(db *sql.DB) *CampaignRepo {
	return &CampaignRepo{db: db}
}

// GetByID returns nil, nil when no campaign exists with that id.
func (r *CampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `
		SELECT id, title, description, photo, start_date, end_date, reduction,
		       created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`
	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepo) List(ctx context.Context) ([]models.Campaign, error) {
	query := `
		SELECT id, title, description, photo, start_date, end_date, reduction,
		       created_at, updated_at
		FROM campaigns
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	query := `
		INSERT INTO campaigns (id, title, description, photo, start_date, end_date, reduction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, c.Photo,
		nullString(c.StartDate), nullString(c.EndDate), nullReduction(c.Reduction),
	)
	return err
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $2, description = $3, photo = $4,
		    start_date = $5, end_date = $6, reduction = $7,
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, c.Photo,
		nullString(c.StartDate), nullString(c.EndDate), nullReduction(c.Reduction),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *CampaignRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var (
		c         models.Campaign
		start     sql.NullString
		end       sql.NullString
		reduction sql.NullFloat64
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Photo,
		&start, &end, &reduction,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		c.StartDate = &start.String
	}
	if end.Valid {
		c.EndDate = &end.String
	}
	if reduction.Valid {
		f := models.FlexFloat(reduction.Float64)
		c.Reduction = &f
	}
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullReduction(f *models.FlexFloat) any {
	if f == nil {
		return nil
	}
	return f.Float64()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
