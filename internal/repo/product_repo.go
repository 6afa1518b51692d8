package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shaiso/routecost/internal/domain"
)

const (
	keyMaterials = "materials"
	keyProducts  = "products"
)

// MaterialRepo — репозиторий материалов.
type MaterialRepo struct {
	items *listStore[domain.Material]
}

// NewMaterialRepo создаёт новый MaterialRepo.
func NewMaterialRepo(store BlobStore) *MaterialRepo {
	return &MaterialRepo{items: newListStore[domain.Material](store, keyMaterials)}
}

// List возвращает все материалы.
func (r *MaterialRepo) List(ctx context.Context) ([]domain.Material, error) {
	return r.items.list(ctx)
}

// UpsertByName обновляет стоимость материала с тем же именем
// (без учёта регистра) или создаёт новый.
// Возвращает сохранённый материал и true, если он был создан.
func (r *MaterialRepo) UpsertByName(ctx context.Context, name string, unitCost float64) (*domain.Material, bool, error) {
	var (
		saved   domain.Material
		created bool
	)
	err := r.items.update(ctx, func(materials []domain.Material) ([]domain.Material, error) {
		i := find(materials, func(m domain.Material) bool { return strings.EqualFold(m.Name, name) })
		if i >= 0 {
			materials[i].UnitCost = unitCost
			saved = materials[i]
			return materials, nil
		}
		saved = domain.Material{ID: uuid.New().String(), Name: name, UnitCost: unitCost}
		created = true
		return append(materials, saved), nil
	})
	if err != nil {
		return nil, false, err
	}
	return &saved, created, nil
}

// Delete удаляет материал по ID.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	return r.items.update(ctx, func(materials []domain.Material) ([]domain.Material, error) {
		i := find(materials, func(m domain.Material) bool { return m.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(materials[:i], materials[i+1:]...), nil
	})
}

// ProductRepo — репозиторий изделий.
type ProductRepo struct {
	items *listStore[domain.Product]
}

// NewProductRepo создаёт новый ProductRepo.
func NewProductRepo(store BlobStore) *ProductRepo {
	return &ProductRepo{items: newListStore[domain.Product](store, keyProducts)}
}

// List возвращает все изделия.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.items.list(ctx)
}

// Get возвращает изделие по ID.
func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.items.list(ctx)
	if err != nil {
		return nil, err
	}
	i := find(products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &products[i], nil
}

// Create добавляет изделие.
func (r *ProductRepo) Create(ctx context.Context, product domain.Product) error {
	return r.items.update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		if find(products, func(p domain.Product) bool { return p.ID == product.ID }) >= 0 {
			return nil, ErrAlreadyExists
		}
		return append(products, product), nil
	})
}

// Update заменяет изделие с тем же ID.
func (r *ProductRepo) Update(ctx context.Context, product domain.Product) error {
	return r.items.update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		i := find(products, func(p domain.Product) bool { return p.ID == product.ID })
		if i < 0 {
			return nil, ErrNotFound
		}
		products[i] = product
		return products, nil
	})
}

// Delete удаляет изделие по ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.items.update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		i := find(products, func(p domain.Product) bool { return p.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(products[:i], products[i+1:]...), nil
	})
}
