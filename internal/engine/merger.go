package engine

import (
	"fmt"
	"math"

	"github.com/shaiso/routecost/internal/domain"
)

// MergeLaborCost записывает рассчитанную стоимость труда в себестоимость изделия.
//
// Возвращает новую копию изделия; исходное не изменяется.
// Повторный вызов перезаписывает стоимость труда, а не накапливает её.
// nil-изделие означает "не найдено" и возвращает ErrProductNotFound.
func MergeLaborCost(product *domain.Product, laborCost float64) (*domain.Product, error) {
	if product == nil {
		return nil, ErrProductNotFound
	}
	if math.IsNaN(laborCost) || math.IsInf(laborCost, 0) || laborCost < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLaborCost, laborCost)
	}

	updated := product.Clone()
	labor := laborCost
	updated.LaborCostFromRouting = &labor
	updated.TotalEstimatedCost = updated.MaterialCost + labor
	updated.TotalCost = updated.TotalEstimatedCost

	return updated, nil
}
