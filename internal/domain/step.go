package domain

import (
	"fmt"
	"math"
)

// MountingType — способ крепления изделия (вторичное измерение для таблиц времени).
type MountingType string

const (
	// MountingFlanged — фланцевое крепление.
	MountingFlanged MountingType = "flanged"

	// MountingEmbedded — закладное (engaged) крепление.
	MountingEmbedded MountingType = "embedded"
)

// IsValid возвращает true для известных типов крепления.
func (m MountingType) IsValid() bool {
	switch m {
	case MountingFlanged, MountingEmbedded:
		return true
	default:
		return false
	}
}

// ParseMountingType парсит строку в MountingType.
// Принимает также исходные обозначения "flang" и "eng".
func ParseMountingType(s string) (MountingType, error) {
	switch s {
	case "flanged", "flang":
		return MountingFlanged, nil
	case "embedded", "engaged", "eng":
		return MountingEmbedded, nil
	default:
		return "", fmt.Errorf("unknown mounting type %q", s)
	}
}

// ProfileKind — дискриминант таблицы времени шага.
type ProfileKind string

const (
	// ProfileFixed — одна пара setup/operation для любого размера.
	ProfileFixed ProfileKind = "fixed"

	// ProfileSizeTiered — упорядоченный список диапазонов по размеру.
	ProfileSizeTiered ProfileKind = "size_tiered"

	// ProfileMountingTiered — две таблицы по размеру: для flanged и для embedded.
	ProfileMountingTiered ProfileKind = "mounting_tiered"
)

// TimePair — время наладки и операции в минутах.
type TimePair struct {
	SetupMinutes     float64 `json:"setup_minutes" yaml:"setup"`
	OperationMinutes float64 `json:"operation_minutes" yaml:"operation"`
}

// Total возвращает сумму наладки и операции.
func (p TimePair) Total() float64 {
	return p.SetupMinutes + p.OperationMinutes
}

// IsZero возвращает true, если обе составляющие равны нулю.
func (p TimePair) IsZero() bool {
	return p.SetupMinutes == 0 && p.OperationMinutes == 0
}

// Tier — диапазон размеров [MinSize, MaxSize] со своей парой времени.
//
// Диапазоны не перекрываются, но между ними допускаются зазоры
// (например 3.9 → 4 и 6 → 6.1). Размер внутри зазора не попадает ни в один tier.
type Tier struct {
	MinSize          float64 `json:"min_size" yaml:"min"`
	MaxSize          float64 `json:"max_size" yaml:"max"`
	SetupMinutes     float64 `json:"setup_minutes" yaml:"setup"`
	OperationMinutes float64 `json:"operation_minutes" yaml:"operation"`
}

// Contains проверяет, попадает ли размер в диапазон (границы включительно).
func (t Tier) Contains(size float64) bool {
	return size >= t.MinSize && size <= t.MaxSize
}

// Times возвращает пару времени tier.
func (t Tier) Times() TimePair {
	return TimePair{SetupMinutes: t.SetupMinutes, OperationMinutes: t.OperationMinutes}
}

// TimeProfile — таблица времени шага в виде tagged variant.
//
// Заполнены только поля, соответствующие Kind:
//   - fixed           → Fixed
//   - size_tiered     → Tiers
//   - mounting_tiered → Flanged и Embedded
type TimeProfile struct {
	// Kind — какая из форм таблицы используется.
	Kind ProfileKind `json:"kind" yaml:"kind"`

	// Fixed — пара времени для фиксированного шага.
	Fixed *TimePair `json:"fixed,omitempty" yaml:"fixed,omitempty"`

	// Tiers — диапазоны для шага, зависящего только от размера.
	Tiers []Tier `json:"tiers,omitempty" yaml:"tiers,omitempty"`

	// Flanged — диапазоны для фланцевого крепления.
	Flanged []Tier `json:"flanged,omitempty" yaml:"flanged,omitempty"`

	// Embedded — диапазоны для закладного крепления.
	Embedded []Tier `json:"embedded,omitempty" yaml:"embedded,omitempty"`
}

// FixedProfile создаёт фиксированный профиль.
func FixedProfile(setup, operation float64) TimeProfile {
	return TimeProfile{
		Kind:  ProfileFixed,
		Fixed: &TimePair{SetupMinutes: setup, OperationMinutes: operation},
	}
}

// SizeTieredProfile создаёт профиль, зависящий от размера.
func SizeTieredProfile(tiers ...Tier) TimeProfile {
	return TimeProfile{Kind: ProfileSizeTiered, Tiers: tiers}
}

// MountingTieredProfile создаёт профиль, зависящий от размера и типа крепления.
func MountingTieredProfile(flanged, embedded []Tier) TimeProfile {
	return TimeProfile{Kind: ProfileMountingTiered, Flanged: flanged, Embedded: embedded}
}

// SizeDependent возвращает true, если время зависит от размера.
func (p TimeProfile) SizeDependent() bool {
	return p.Kind == ProfileSizeTiered || p.Kind == ProfileMountingTiered
}

// MountingDependent возвращает true, если время зависит от типа крепления.
func (p TimeProfile) MountingDependent() bool {
	return p.Kind == ProfileMountingTiered
}

// TiersFor возвращает таблицу для заданного типа крепления.
// Для size_tiered тип крепления игнорируется, для fixed возвращается nil.
func (p TimeProfile) TiersFor(mounting MountingType) []Tier {
	switch p.Kind {
	case ProfileMountingTiered:
		if mounting == MountingFlanged {
			return p.Flanged
		}
		return p.Embedded
	case ProfileSizeTiered:
		return p.Tiers
	default:
		return nil
	}
}

// Validate проверяет согласованность профиля с его Kind.
func (p TimeProfile) Validate() error {
	switch p.Kind {
	case ProfileFixed:
		if p.Fixed == nil {
			return fmt.Errorf("fixed profile requires a time pair")
		}
		if len(p.Tiers) > 0 || len(p.Flanged) > 0 || len(p.Embedded) > 0 {
			return fmt.Errorf("fixed profile must not carry tiers")
		}
		return validatePair(*p.Fixed)

	case ProfileSizeTiered:
		if p.Fixed != nil || len(p.Flanged) > 0 || len(p.Embedded) > 0 {
			return fmt.Errorf("size_tiered profile must only carry tiers")
		}
		return validateTiers("tiers", p.Tiers)

	case ProfileMountingTiered:
		if p.Fixed != nil || len(p.Tiers) > 0 {
			return fmt.Errorf("mounting_tiered profile must only carry flanged/embedded tiers")
		}
		if err := validateTiers("flanged", p.Flanged); err != nil {
			return err
		}
		return validateTiers("embedded", p.Embedded)

	default:
		return fmt.Errorf("unknown profile kind %q", p.Kind)
	}
}

func validatePair(p TimePair) error {
	if !nonNegative(p.SetupMinutes) || !nonNegative(p.OperationMinutes) {
		return fmt.Errorf("times must be finite and non-negative")
	}
	return nil
}

// validateTiers требует непустую таблицу, min <= max и строгий порядок без перекрытий.
func validateTiers(name string, tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%s: at least one tier is required", name)
	}
	for i, t := range tiers {
		if !finite(t.MinSize) || !finite(t.MaxSize) || t.MinSize > t.MaxSize {
			return fmt.Errorf("%s[%d]: invalid range [%g, %g]", name, i, t.MinSize, t.MaxSize)
		}
		if err := validatePair(t.Times()); err != nil {
			return fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		if i > 0 && t.MinSize <= tiers[i-1].MaxSize {
			return fmt.Errorf("%s[%d]: range overlaps or is out of order", name, i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}

// StepDefinition — запись каталога: одна производственная операция
// и то, как её время зависит от параметров изделия.
type StepDefinition struct {
	// ID — стабильный идентификатор шага, на него ссылаются экземпляры маршрута.
	ID string `json:"id" yaml:"id"`

	// Name — человекочитаемое название ("Corte", "Plasma").
	Name string `json:"name" yaml:"name"`

	// Sector — участок цеха (свободный текст).
	Sector string `json:"sector" yaml:"sector"`

	// AssignedWorkerID — слабая ссылка на Worker (может быть пустой).
	AssignedWorkerID string `json:"assigned_worker_id,omitempty" yaml:"assigned_worker_id,omitempty"`

	// AssignedMachineID — слабая ссылка на Machine (может быть пустой).
	AssignedMachineID string `json:"assigned_machine_id,omitempty" yaml:"assigned_machine_id,omitempty"`

	// JointOperation — шаг выполняется "в группе": подряд идущие такие шаги
	// делят одну наладку.
	JointOperation bool `json:"joint_operation" yaml:"joint_operation"`

	// Profile — таблица времени.
	Profile TimeProfile `json:"profile" yaml:"profile"`
}

// Validate проверяет обязательные поля и профиль времени.
func (s StepDefinition) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("step id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("step name is required")
	}
	if s.Sector == "" {
		return fmt.Errorf("step sector is required")
	}
	if err := s.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}
