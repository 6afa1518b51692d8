package engine

import (
	"math"

	"github.com/shaiso/routecost/internal/domain"
)

// standardTiers — три диапазона размеров с зазорами 3.9→4 и 6→6.1.
func standardTiers(pairs [3][2]float64) []domain.Tier {
	bounds := [3][2]float64{{1, 3.9}, {4, 6}, {6.1, 12}}
	tiers := make([]domain.Tier, 3)
	for i := range tiers {
		tiers[i] = domain.Tier{
			MinSize:          bounds[i][0],
			MaxSize:          bounds[i][1],
			SetupMinutes:     pairs[i][0],
			OperationMinutes: pairs[i][1],
		}
	}
	return tiers
}

func corteStep() domain.StepDefinition {
	return domain.StepDefinition{
		ID:      "corte",
		Name:    "Corte",
		Sector:  "Serralheria",
		Profile: domain.SizeTieredProfile(standardTiers([3][2]float64{{2, 1.5}, {4, 4.5}, {5, 6.5}})...),
	}
}

func plasmaStep() domain.StepDefinition {
	return domain.StepDefinition{
		ID:     "plasma",
		Name:   "Plasma",
		Sector: "Serralheria",
		Profile: domain.MountingTieredProfile(
			standardTiers([3][2]float64{{5, 5}, {5, 7}, {5, 10}}),
			standardTiers([3][2]float64{{2, 2}, {1, 3}, {2, 6}}),
		),
	}
}

func soldagemBaseStep() domain.StepDefinition {
	return domain.StepDefinition{
		ID:     "soldagem_base",
		Name:   "Soldagem Base",
		Sector: "Calderaria",
		Profile: domain.MountingTieredProfile(
			standardTiers([3][2]float64{{3, 5}, {3, 7}, {3, 10}}),
			standardTiers([3][2]float64{{0, 0}, {0, 0}, {0, 0}}),
		),
	}
}

func acabamentoStep() domain.StepDefinition {
	return domain.StepDefinition{
		ID:             "acabamento",
		Name:           "Acabamento",
		Sector:         "Expedição",
		JointOperation: true,
		Profile:        domain.FixedProfile(5, 5),
	}
}

func testCatalog(extra ...domain.StepDefinition) *Catalog {
	defs := []domain.StepDefinition{corteStep(), plasmaStep(), soldagemBaseStep(), acabamentoStep()}
	return NewCatalog(append(defs, extra...))
}

func flanged(size float64) domain.RunParameters {
	return domain.RunParameters{Size: size, Mounting: domain.MountingFlanged}
}

func embedded(size float64) domain.RunParameters {
	return domain.RunParameters{Size: size, Mounting: domain.MountingEmbedded}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
