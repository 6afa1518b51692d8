package routing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/telemetry"
)

// ListMaterials возвращает все материалы.
func (s *Service) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	return s.materials.List(ctx)
}

// UpsertMaterial создаёт материал или обновляет стоимость материала
// с тем же именем (без учёта регистра).
func (s *Service) UpsertMaterial(ctx context.Context, name string, unitCost float64) (*domain.Material, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: material name is required", ErrValidation)
	}
	if math.IsNaN(unitCost) || math.IsInf(unitCost, 0) || unitCost < 0 {
		return nil, false, fmt.Errorf("%w: unit cost must be a non-negative number", ErrValidation)
	}

	material, created, err := s.materials.UpsertByName(ctx, name, unitCost)
	if err != nil {
		return nil, false, fmt.Errorf("upsert material: %w", err)
	}

	s.loggerFrom(ctx).Info("material saved", "material_id", material.ID, "created", created, "unit_cost", unitCost)
	return material, created, nil
}

// DeleteMaterial удаляет материал. Изделия сохраняют рассчитанную
// ранее стоимость сырья.
func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	if err := s.materials.Delete(ctx, id); err != nil {
		return err
	}
	s.loggerFrom(ctx).Info("material deleted", "material_id", id)
	return nil
}

// ProductInput — данные для создания или изменения изделия.
type ProductInput struct {
	Name      string                 `json:"name"`
	SKU       string                 `json:"sku"`
	SalePrice float64                `json:"sale_price"`
	Materials []domain.MaterialUsage `json:"materials"`
}

// ListProducts возвращает все изделия.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// GetProduct возвращает изделие по ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.Get(ctx, id)
}

// CreateProduct создаёт изделие. Стоимость сырья считается по составу,
// стоимость труда — условная, до связывания с маршрутом.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	usages, materials, err := s.resolveComposition(ctx, in.Materials)
	if err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(strings.TrimSpace(in.Name), strings.TrimSpace(in.SKU), in.SalePrice, usages, materials)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.products.Create(ctx, *product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	telemetry.WithProductID(s.loggerFrom(ctx), product.ID).Info("product created",
		"material_cost", product.MaterialCost,
		"total_estimated_cost", product.TotalEstimatedCost,
	)
	return product, nil
}

// UpdateProduct меняет название, цену и состав изделия.
// Стоимость сырья пересчитывается, стоимость труда по маршруту сохраняется.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	usages, materials, err := s.resolveComposition(ctx, in.Materials)
	if err != nil {
		return nil, err
	}

	draft, err := domain.NewProduct(strings.TrimSpace(in.Name), strings.TrimSpace(in.SKU), in.SalePrice, usages, materials)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.Name = draft.Name
	updated.SKU = draft.SKU
	updated.SalePrice = draft.SalePrice
	updated.Materials = draft.Materials
	updated.MaterialCost = draft.MaterialCost
	updated.TotalEstimatedCost = updated.MaterialCost + updated.EffectiveLaborCost()
	updated.TotalCost = updated.TotalEstimatedCost

	if err := s.products.Update(ctx, *updated); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	telemetry.WithProductID(s.loggerFrom(ctx), id).Info("product updated", "total_estimated_cost", updated.TotalEstimatedCost)
	return updated, nil
}

// DeleteProduct удаляет изделие.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.WithProductID(s.loggerFrom(ctx), id).Info("product deleted")
	return nil
}

// resolveComposition проверяет, что все материалы существуют.
// Повторное указание материала заменяет его количество.
func (s *Service) resolveComposition(ctx context.Context, in []domain.MaterialUsage) ([]domain.MaterialUsage, []domain.Material, error) {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]bool, len(materials))
	for _, m := range materials {
		known[m.ID] = true
	}

	var usages []domain.MaterialUsage
	index := make(map[string]int, len(in))
	for _, u := range in {
		if !known[u.MaterialID] {
			return nil, nil, fmt.Errorf("%w: material %s does not exist", ErrValidation, u.MaterialID)
		}
		if i, ok := index[u.MaterialID]; ok {
			usages[i].Quantity = u.Quantity
			continue
		}
		index[u.MaterialID] = len(usages)
		usages = append(usages, u)
	}

	return usages, materials, nil
}
