package repository

import (
	"context"
	"database/sql"

	"storefront-service/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, price, image, category, description) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Price, product.Image, product.Category, product.Description)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = id
	return product, nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	product := &entity.Product{}
	query := `SELECT id, name, price, image, category, description, created_at FROM products WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Name, &product.Price,
		&product.Image, &product.Category, &product.Description, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price, image, category, description, created_at FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		product := entity.Product{}
		err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Image,
			&product.Category, &product.Description, &product.CreatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, price = ?, image = ?, category = ?, description = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Price, product.Image,
		product.Category, product.Description, product.ID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}
	return product, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ProductRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}
