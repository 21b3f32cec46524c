package condb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vitrine/catalog"
	"vitrine/models"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store is the Postgres record store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

func conflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.ErrConflict
	}
	return err
}

// missingRef maps a foreign key violation to the request field that named
// the missing row. Other references fall back to ErrNotFound.
func missingRef(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "category"):
		return &models.ValidationError{Fields: []string{"category_id"}}
	default:
		return models.ErrNotFound
	}
}

func nullableID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bad uuid %q: %w", s, err)
	}
	return id, nil
}

// ====================
// catalog reads
// ====================

const productRowsSQL = `
SELECT
  p.id::text,
  p.name,
  p.description,
  p.price,
  p.is_featured,
  p.is_new,
  p.stock_quantity,
  p.created_at,
  c.name,
  s.id::text,
  s.name,
  s.whatsapp_number,
  COALESCE((
    SELECT json_agg(json_build_object(
      'image_url', i.image_url, 'alt_text', i.alt_text, 'display_order', i.display_order))
    FROM product_images i WHERE i.product_id = p.id
  ), '[]'::json),
  COALESCE((
    SELECT json_agg(json_build_object(
      'detail_text', d.detail_text, 'display_order', d.display_order))
    FROM product_details d WHERE d.product_id = p.id
  ), '[]'::json)
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
LEFT JOIN shops s ON s.id = p.shop_id
ORDER BY p.created_at DESC`

func (s *Store) ProductRows(ctx context.Context) ([]catalog.ProductRow, error) {
	rows, err := s.pool.Query(ctx, productRowsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.ProductRow
	for rows.Next() {
		var (
			r                catalog.ProductRow
			id               string
			shopID, shopName *string
			shopWhatsapp     *string
		)
		if err := rows.Scan(
			&id,
			&r.Name,
			&r.Description,
			&r.Price,
			&r.IsFeatured,
			&r.IsNew,
			&r.StockQuantity,
			&r.CreatedAt,
			&r.CategoryName,
			&shopID,
			&shopName,
			&shopWhatsapp,
			&r.Images,
			&r.Details,
		); err != nil {
			return nil, err
		}
		if r.ID, err = parseID(id); err != nil {
			return nil, err
		}
		if shopID != nil {
			sid, err := parseID(*shopID)
			if err != nil {
				return nil, err
			}
			r.Shop = &catalog.ShopRow{ID: sid, WhatsappNumber: shopWhatsapp}
			if shopName != nil {
				r.Shop.Name = *shopName
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const categoryCols = `id::text, user_id::text, name, description, created_at, updated_at`

func scanCategory(row pgx.Row) (models.Category, error) {
	var (
		c           models.Category
		id, ownerID string
	)
	if err := row.Scan(&id, &ownerID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Category{}, err
	}
	var err error
	if c.ID, err = parseID(id); err != nil {
		return models.Category{}, err
	}
	if c.UserID, err = parseID(ownerID); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (s *Store) Categories(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE user_id = $1 ORDER BY name`, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ====================
// categories
// ====================

func (s *Store) CreateCategory(ctx context.Context, ownerID uuid.UUID, req models.CategoryReq) (models.Category, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING `+categoryCols,
		ownerID.String(), strings.TrimSpace(req.Name), models.OptionalText(req.Description))
	return scanCategory(row)
}

// ownership tells apart a missing row from a row owned by someone else.
func (s *Store) ownership(ctx context.Context, table string, id uuid.UUID) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrForbidden
	}
	return models.ErrNotFound
}

func (s *Store) UpdateCategory(ctx context.Context, ownerID, id uuid.UUID, req models.CategoryReq) (models.Category, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE categories SET name = $3, description = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+categoryCols,
		id.String(), ownerID.String(), strings.TrimSpace(req.Name), models.OptionalText(req.Description))
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Category{}, s.ownership(ctx, "categories", id)
	}
	return c, err
}

func (s *Store) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id.String(), ownerID.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.ownership(ctx, "categories", id)
	}
	return nil
}

// ====================
// shops
// ====================

const shopCols = `id::text, user_id::text, name, description, whatsapp_number, is_active, created_at, updated_at`

func scanShop(row pgx.Row) (models.Shop, error) {
	var (
		sh          models.Shop
		id, ownerID string
	)
	if err := row.Scan(&id, &ownerID, &sh.Name, &sh.Description, &sh.WhatsappNumber, &sh.IsActive, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
		return models.Shop{}, notFound(err)
	}
	var err error
	if sh.ID, err = parseID(id); err != nil {
		return models.Shop{}, err
	}
	if sh.UserID, err = parseID(ownerID); err != nil {
		return models.Shop{}, err
	}
	return sh, nil
}

func (s *Store) ActiveShops(ctx context.Context) ([]models.Shop, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+shopCols+` FROM shops WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Shop{}
	for rows.Next() {
		sh, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) ShopByOwner(ctx context.Context, ownerID uuid.UUID) (models.Shop, error) {
	return scanShop(s.pool.QueryRow(ctx, `SELECT `+shopCols+` FROM shops WHERE user_id = $1`, ownerID.String()))
}

func (s *Store) CreateShop(ctx context.Context, ownerID uuid.UUID, req models.ShopReq) (models.Shop, error) {
	active := req.IsActive == nil || *req.IsActive
	sh, err := scanShop(s.pool.QueryRow(ctx,
		`INSERT INTO shops (user_id, name, description, whatsapp_number, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 RETURNING `+shopCols,
		ownerID.String(), strings.TrimSpace(req.Name), models.OptionalText(req.Description),
		models.OptionalText(req.WhatsappNumber), active))
	return sh, conflict(err)
}

func (s *Store) UpdateShop(ctx context.Context, ownerID uuid.UUID, req models.ShopReq) (models.Shop, error) {
	return scanShop(s.pool.QueryRow(ctx,
		`UPDATE shops SET name = $2, description = $3, whatsapp_number = $4,
		   is_active = COALESCE($5, is_active), updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING `+shopCols,
		ownerID.String(), strings.TrimSpace(req.Name), models.OptionalText(req.Description),
		models.OptionalText(req.WhatsappNumber), req.IsActive))
}

func (s *Store) UpdateWhatsapp(ctx context.Context, ownerID uuid.UUID, number string) (models.Shop, error) {
	return scanShop(s.pool.QueryRow(ctx,
		`UPDATE shops SET whatsapp_number = $2, updated_at = NOW() WHERE user_id = $1 RETURNING `+shopCols,
		ownerID.String(), models.OptionalText(number)))
}

func (s *Store) DeleteShop(ctx context.Context, ownerID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM shops WHERE user_id = $1`, ownerID.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ====================
// products
// ====================

// CreateProduct writes the product, its images and its details one statement
// at a time. There is no transaction: when a later step fails the earlier
// rows stay and a PartialWriteError names the step.
func (s *Store) CreateProduct(ctx context.Context, shopID *uuid.UUID, req models.CreateProductReq) (uuid.UUID, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO products (shop_id, category_id, name, description, price, is_featured, is_new, stock_quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		 RETURNING id::text`,
		nullableID(shopID), nullableID(req.CategoryID), strings.TrimSpace(req.Name), req.Description,
		req.Price, req.IsFeatured, req.IsNew, req.StockQuantity,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, missingRef(err)
	}
	productID, err := parseID(id)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.insertImages(ctx, productID, strings.TrimSpace(req.Name), req.Images); err != nil {
		return productID, &models.PartialWriteError{Step: "images", ProductID: productID, Err: err}
	}
	if err := s.insertDetails(ctx, productID, req.Details); err != nil {
		return productID, &models.PartialWriteError{Step: "details", ProductID: productID, Err: err}
	}
	return productID, nil
}

func (s *Store) insertImages(ctx context.Context, productID uuid.UUID, name string, urls []string) error {
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return models.ErrEmptyImageURL
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO product_images (product_id, image_url, alt_text, display_order) VALUES ($1, $2, $3, $4)`,
			productID.String(), u, models.ImageAlt(name, i), i,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertDetails(ctx context.Context, productID uuid.UUID, details []string) error {
	for i, d := range models.CleanDetails(details) {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO product_details (product_id, detail_text, display_order) VALUES ($1, $2, $3)`,
			productID.String(), d, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, req models.UpdateProductReq) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET category_id = $2, name = $3, description = $4, price = $5,
		   is_featured = $6, is_new = $7, stock_quantity = $8, updated_at = NOW()
		 WHERE id = $1`,
		req.ID.String(), nullableID(req.CategoryID), strings.TrimSpace(req.Name), req.Description,
		req.Price, req.IsFeatured, req.IsNew, req.StockQuantity,
	)
	if err != nil {
		return missingRef(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if req.Images != nil {
		if _, err := s.pool.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, req.ID.String()); err != nil {
			return &models.PartialWriteError{Step: "images", ProductID: req.ID, Err: err}
		}
		if err := s.insertImages(ctx, req.ID, strings.TrimSpace(req.Name), req.Images); err != nil {
			return &models.PartialWriteError{Step: "images", ProductID: req.ID, Err: err}
		}
	}
	if req.Details != nil {
		if _, err := s.pool.Exec(ctx, `DELETE FROM product_details WHERE product_id = $1`, req.ID.String()); err != nil {
			return &models.PartialWriteError{Step: "details", ProductID: req.ID, Err: err}
		}
		if err := s.insertDetails(ctx, req.ID, req.Details); err != nil {
			return &models.PartialWriteError{Step: "details", ProductID: req.ID, Err: err}
		}
	}
	return nil
}

// DeleteProduct removes images, details, then the product row.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	for _, stmt := range []string{
		`DELETE FROM product_images WHERE product_id = $1`,
		`DELETE FROM product_details WHERE product_id = $1`,
	} {
		if _, err := s.pool.Exec(ctx, stmt, id.String()); err != nil {
			return err
		}
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ====================
// users
// ====================

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u  models.User
		id string
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return models.User{}, notFound(err)
	}
	var err error
	u.ID, err = parseID(id)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, role string) (models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role, created_at) VALUES ($1, $2, $3, $4)
		 RETURNING id::text, email, password_hash, role, created_at`,
		strings.ToLower(strings.TrimSpace(email)), passwordHash, role, time.Now()))
	return u, conflict(err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT id::text, email, password_hash, role, created_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))))
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT id::text, email, password_hash, role, created_at FROM users WHERE id = $1`, id.String()))
}
