package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/engine"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// ErrEmptySeed — файл каталога пуст.
var ErrEmptySeed = errors.New("catalog seed is empty")

// Seed — начальный каталог и правила автодобавления.
type Seed struct {
	Steps []domain.StepDefinition `yaml:"steps"`
	Rules []engine.ExpansionRule  `yaml:"rules"`
}

// Default возвращает встроенный каталог.
func Default() (*Seed, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile читает каталог из файла.
func LoadFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	seed, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seed, nil
}

// Load разбирает и валидирует каталог.
// Неизвестные поля считаются ошибкой.
func Load(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySeed
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate проверяет шаги и правила.
// Тип крепления в правиле нормализуется ("flang" → "flanged").
func (s *Seed) Validate() error {
	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if seen[step.ID] {
			return fmt.Errorf("steps[%d]: duplicate step id %q", i, step.ID)
		}
		seen[step.ID] = true
	}

	for i := range s.Rules {
		rule := &s.Rules[i]
		if rule.TriggerStepID == "" {
			return fmt.Errorf("rules[%d]: trigger is required", i)
		}
		if len(rule.Implied) == 0 {
			return fmt.Errorf("rules[%d]: at least one implied step is required", i)
		}
		if rule.Mounting != "" {
			m, err := domain.ParseMountingType(string(rule.Mounting))
			if err != nil {
				return fmt.Errorf("rules[%d]: %w", i, err)
			}
			rule.Mounting = m
		}
	}
	return nil
}

// StepIDs возвращает ID шагов в порядке объявления.
func (s *Seed) StepIDs() []string {
	ids := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		ids[i] = step.ID
	}
	return ids
}
