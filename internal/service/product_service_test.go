package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"storefront-service/internal/entity"
)

type fakeProductRepo struct {
	m      map[int64]*entity.Product
	nextID int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{m: map[int64]*entity.Product{}}
}

func (r *fakeProductRepo) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	r.nextID++
	product.ID = r.nextID
	product.CreatedAt = time.Now().UTC()
	cp := *product
	r.m[product.ID] = &cp
	return product, nil
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	product, ok := r.m[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *product
	return &cp, nil
}

func (r *fakeProductRepo) ListProducts(ctx context.Context) ([]entity.Product, error) {
	out := []entity.Product{}
	for _, product := range r.m {
		out = append(out, *product)
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if _, ok := r.m[product.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *product
	r.m[product.ID] = &cp
	return product, nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := r.m[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m, id)
	return nil
}

func TestUpdateProductPartialPatch(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &entity.Product{
		Name:     "Denim Jacket",
		Price:    59.90,
		Image:    "https://cdn.example.com/denim.jpg",
		Category: "jackets",
	})
	if err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}

	newPrice := 49.90
	updated, err := svc.UpdateProduct(ctx, created.ID, &ProductPatch{Price: &newPrice})
	if err != nil {
		t.Fatalf("UpdateProduct error: %v", err)
	}
	if updated.Price != 49.90 {
		t.Fatalf("price = %v, want 49.90", updated.Price)
	}
	// Fields absent from the patch survive the edit.
	if updated.Name != "Denim Jacket" || updated.Image != "https://cdn.example.com/denim.jpg" || updated.Category != "jackets" {
		t.Fatalf("unsent fields clobbered: %+v", updated)
	}

	got, err := svc.GetProductByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProductByID error: %v", err)
	}
	if got.Price != 49.90 || got.Name != "Denim Jacket" {
		t.Fatalf("stored product = %+v", got)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())
	name := "Tee"
	_, err := svc.UpdateProduct(context.Background(), 42, &ProductPatch{Name: &name})
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())
	err := svc.DeleteProduct(context.Background(), 42)
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
