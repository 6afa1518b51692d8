package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// DefaultSimulatedLaborCost — условная стоимость труда на изделие,
// пока для него не рассчитан маршрут.
const DefaultSimulatedLaborCost = 50.00

// Material — материал с базовой стоимостью единицы.
type Material struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	UnitCost float64 `json:"unit_cost"`
}

// MaterialUsage — расход материала в составе изделия.
// Quantity может быть дробным (0.01, 0.5, 2.5).
type MaterialUsage struct {
	MaterialID string  `json:"material_id"`
	Quantity   float64 `json:"quantity"`
}

// ComputeMaterialCost считает стоимость сырья по составу.
// Неизвестные материалы пропускаются.
func ComputeMaterialCost(usages []MaterialUsage, materials []Material) float64 {
	byID := make(map[string]float64, len(materials))
	for _, m := range materials {
		byID[m.ID] = m.UnitCost
	}

	var total float64
	for _, u := range usages {
		if cost, ok := byID[u.MaterialID]; ok {
			total += cost * u.Quantity
		}
	}
	return total
}

// Product — изделие со структурой себестоимости.
//
// Инвариант после любого merge:
//
//	TotalEstimatedCost = MaterialCost + (LaborCostFromRouting ?? DefaultSimulatedLaborCost)
type Product struct {
	// ID — уникальный идентификатор.
	ID string `json:"id"`

	// Name — название изделия.
	Name string `json:"name"`

	// SKU — артикул.
	SKU string `json:"sku,omitempty"`

	// SalePrice — цена продажи.
	SalePrice float64 `json:"sale_price"`

	// Materials — состав изделия.
	Materials []MaterialUsage `json:"materials,omitempty"`

	// MaterialCost — стоимость сырья.
	MaterialCost float64 `json:"material_cost"`

	// LaborCostFromRouting — стоимость труда, рассчитанная по маршруту.
	// nil, пока маршрут не связан с изделием.
	LaborCostFromRouting *float64 `json:"labor_cost_from_routing,omitempty"`

	// TotalEstimatedCost — оценка полной себестоимости.
	TotalEstimatedCost float64 `json:"total_estimated_cost"`

	// TotalCost — устаревшее поле, дублирует TotalEstimatedCost
	// для старых читателей.
	TotalCost float64 `json:"total_cost"`
}

// NewProduct создаёт изделие с условной стоимостью труда.
func NewProduct(name, sku string, salePrice float64, usages []MaterialUsage, materials []Material) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if len(usages) == 0 {
		return nil, fmt.Errorf("product must have at least one material")
	}
	for _, u := range usages {
		if math.IsNaN(u.Quantity) || u.Quantity <= 0 {
			return nil, fmt.Errorf("material %s: quantity must be positive", u.MaterialID)
		}
	}

	materialCost := ComputeMaterialCost(usages, materials)
	total := materialCost + DefaultSimulatedLaborCost

	return &Product{
		ID:                 uuid.New().String(),
		Name:               name,
		SKU:                sku,
		SalePrice:          salePrice,
		Materials:          usages,
		MaterialCost:       materialCost,
		TotalEstimatedCost: total,
		TotalCost:          total,
	}, nil
}

// EffectiveLaborCost возвращает рассчитанную стоимость труда,
// а если её нет — условную.
func (p *Product) EffectiveLaborCost() float64 {
	if p.LaborCostFromRouting != nil {
		return *p.LaborCostFromRouting
	}
	return DefaultSimulatedLaborCost
}

// DisplayCost возвращает себестоимость для отображения:
// TotalEstimatedCost, если задана, иначе TotalCost.
func (p *Product) DisplayCost() float64 {
	if p.TotalEstimatedCost != 0 {
		return p.TotalEstimatedCost
	}
	return p.TotalCost
}

// Clone возвращает глубокую копию изделия.
func (p *Product) Clone() *Product {
	c := *p
	if p.Materials != nil {
		c.Materials = append([]MaterialUsage(nil), p.Materials...)
	}
	if p.LaborCostFromRouting != nil {
		v := *p.LaborCostFromRouting
		c.LaborCostFromRouting = &v
	}
	return &c
}
