package engine

import "github.com/shaiso/routecost/internal/domain"

// Resolve возвращает пару (наладка, операция) шага для размера и типа крепления.
//
// Порядок выбора:
//  1. mounting_tiered — таблица по типу крепления, затем поиск tier по размеру;
//  2. size_tiered     — поиск tier по единственной таблице;
//  3. fixed           — всегда одна и та же пара.
//
// Если размер не задан или попадает в зазор/за пределы таблиц, возвращается
// нулевая пара и ok=false. Это не ошибка: шаг просто "не применим" к размеру.
func Resolve(step domain.StepDefinition, size float64, mounting domain.MountingType) (domain.TimePair, bool) {
	p := step.Profile

	switch p.Kind {
	case domain.ProfileMountingTiered, domain.ProfileSizeTiered:
		params := domain.RunParameters{Size: size, Mounting: mounting}
		if !params.HasSize() {
			return domain.TimePair{}, false
		}
		return findTier(p.TiersFor(mounting), size)

	case domain.ProfileFixed:
		if p.Fixed == nil {
			return domain.TimePair{}, false
		}
		return *p.Fixed, true

	default:
		return domain.TimePair{}, false
	}
}

// findTier — линейный поиск по небольшой упорядоченной таблице.
func findTier(tiers []domain.Tier, size float64) (domain.TimePair, bool) {
	for _, t := range tiers {
		if t.Contains(size) {
			return t.Times(), true
		}
	}
	return domain.TimePair{}, false
}
