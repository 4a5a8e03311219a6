package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ecomcore/storefront/internal/kvstore"
	"github.com/ecomcore/storefront/internal/models"
)

const catalogPath = "products"

// ProductRepo owns product rows in postgres and mirrors every committed write
// into the catalog store, which serves all read queries. The mirror always
// writes the campaign attachment in reference form ("campaign/<id>") so
// store-side campaign equality works for every record generation.
type ProductRepo struct {
	db     *sql.DB
	mirror kvstore.Writer
}

func NewProductRepo(db *sql.DB, mirror kvstore.Writer) *ProductRepo {
	return &ProductRepo{db: db, mirror: mirror}
}

// Seed loads every product into the catalog store. Called once at boot.
func (r *ProductRepo) Seed(ctx context.Context) error {
	products, err := r.All(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if err := r.mirror.Put(catalogPath, products[i].ID, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepo) All(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, productSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetByID returns nil, nil when no product exists with that id.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	p.NameLower = strings.ToLower(p.Name)
	query := `
		INSERT INTO products (id, name, name_lower, description, category, price, quantity, photo, campaign_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.NameLower, p.Description, p.Category,
		p.Price, p.Quantity, p.Photo, nullCampaignID(p),
	)
	if err != nil {
		return err
	}
	return r.Refresh(ctx, p.ID)
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	p.NameLower = strings.ToLower(p.Name)
	query := `
		UPDATE products
		SET name = $2, name_lower = $3, description = $4, category = $5,
		    price = $6, quantity = $7, photo = $8, campaign_id = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.NameLower, p.Description, p.Category,
		p.Price, p.Quantity, p.Photo, nullCampaignID(p),
	)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return r.Refresh(ctx, p.ID)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	r.mirror.Delete(catalogPath, id)
	return nil
}

// Refresh rereads one row and republishes it to the catalog store. Order
// placement calls this after decrementing stock so live product lists track
// quantities.
func (r *ProductRepo) Refresh(ctx context.Context, id string) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		r.mirror.Delete(catalogPath, id)
		return nil
	}
	return r.mirror.Put(catalogPath, id, p)
}

const productSelect = `
	SELECT id, name, name_lower, description, category, price, quantity, photo, campaign_id, updated_at
	FROM products`

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p          models.Product
		campaignID sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.NameLower, &p.Description, &p.Category,
		&p.Price, &p.Quantity, &p.Photo, &campaignID, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if campaignID.Valid && campaignID.String != "" {
		p.Campaign = &models.CampaignField{Ref: campaignID.String}
	}
	return &p, nil
}

func nullCampaignID(p *models.Product) any {
	if id := p.CampaignID(); id != "" {
		return id
	}
	return nil
}
