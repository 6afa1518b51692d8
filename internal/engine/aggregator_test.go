package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shaiso/routecost/internal/domain"
)

func fixedStep(id string, joint bool, setup, operation float64, workerID string) domain.StepDefinition {
	return domain.StepDefinition{
		ID:               id,
		Name:             id,
		Sector:           "test",
		AssignedWorkerID: workerID,
		JointOperation:   joint,
		Profile:          domain.FixedProfile(setup, operation),
	}
}

func entries(ids ...string) []domain.RoutingEntry {
	out := make([]domain.RoutingEntry, len(ids))
	for i, id := range ids {
		out[i] = domain.RoutingEntry{StepID: id, InstanceID: id + "-inst"}
	}
	return out
}

func emptyRegistry() *Registry {
	return NewRegistry(nil, nil)
}

func TestAggregate_JointSetupCountsOncePerContiguousGroup(t *testing.T) {
	// [A(joint), B(joint), C(non-joint), D(joint)]
	catalog := NewCatalog([]domain.StepDefinition{
		fixedStep("A", true, 1, 10, ""),
		fixedStep("B", true, 2, 20, ""),
		fixedStep("C", false, 4, 40, ""),
		fixedStep("D", true, 8, 80, ""),
	})

	result, err := Aggregate(entries("A", "B", "C", "D"), flanged(5), catalog, emptyRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// setup(A) + setup(C) + setup(D); B исключён
	if result.TotalSetupMinutes != 13 {
		t.Errorf("expected setup 13, got %v", result.TotalSetupMinutes)
	}
	if result.TotalOperationMinutes != 150 {
		t.Errorf("expected operation 150, got %v", result.TotalOperationMinutes)
	}
	if result.TotalTimeMinutes != 163 {
		t.Errorf("expected total 163, got %v", result.TotalTimeMinutes)
	}

	counted := []float64{1, 0, 4, 8}
	for i, line := range result.Lines {
		if line.CountedSetupMinutes != counted[i] {
			t.Errorf("line %d (%s): expected counted setup %v, got %v", i, line.StepID, counted[i], line.CountedSetupMinutes)
		}
	}
	if result.Lines[1].SetupMinutes != 2 {
		t.Errorf("line B should still report its table setup, got %v", result.Lines[1].SetupMinutes)
	}
}

func TestAggregate_OrderMatters(t *testing.T) {
	catalog := NewCatalog([]domain.StepDefinition{
		fixedStep("A", true, 1, 0, ""),
		fixedStep("B", true, 2, 0, ""),
		fixedStep("C", false, 4, 0, ""),
	})

	grouped, _ := Aggregate(entries("A", "B", "C"), flanged(5), catalog, emptyRegistry())
	split, _ := Aggregate(entries("A", "C", "B"), flanged(5), catalog, emptyRegistry())

	if grouped.TotalSetupMinutes != 5 {
		t.Errorf("contiguous joint steps: expected setup 5, got %v", grouped.TotalSetupMinutes)
	}
	if split.TotalSetupMinutes != 7 {
		t.Errorf("split joint steps: expected setup 7, got %v", split.TotalSetupMinutes)
	}
}

func TestAggregate_SingleWorkerCost(t *testing.T) {
	worker := domain.Worker{ID: "w1", Name: "João", MonthlySalary: 50, HourlyRate: domain.HourlyRateFromSalary(50)}
	step := corteStep()
	step.AssignedWorkerID = "w1"

	result, err := Aggregate(entries("corte"), embedded(2), NewCatalog([]domain.StepDefinition{step}), NewRegistry([]domain.Worker{worker}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Workers) != 1 {
		t.Fatalf("expected 1 worker bucket, got %d", len(result.Workers))
	}
	w := result.Workers[0]

	if w.TimeMinutes != 3.5 {
		t.Errorf("expected 3.5 minutes, got %v", w.TimeMinutes)
	}
	wantCost := (3.5 / 60) * (50.0 / 220)
	if !approxEqual(w.Cost, wantCost, 1e-12) {
		t.Errorf("expected cost %v, got %v", wantCost, w.Cost)
	}
	if !approxEqual(w.Cost, 0.01326, 1e-5) {
		t.Errorf("expected cost ≈ 0.01326, got %v", w.Cost)
	}
	if result.TotalCost != w.Cost {
		t.Errorf("total cost should equal the only bucket, got %v", result.TotalCost)
	}
}

// Разбивка по сотрудникам берёт полное время шага, а общий итог — время
// с исключённой наладкой. Фиксируем это расхождение числами.
func TestAggregate_WorkerCostUsesFullSetupWhileTotalDedups(t *testing.T) {
	rate := domain.HourlyRateFromSalary(2200) // 10 за час
	worker := domain.Worker{ID: "w1", Name: "Ana", MonthlySalary: 2200, HourlyRate: rate}

	catalog := NewCatalog([]domain.StepDefinition{
		fixedStep("J1", true, 5, 5, "w1"),
		fixedStep("J2", true, 5, 5, "w1"),
	})

	result, err := Aggregate(entries("J1", "J2"), flanged(5), catalog, NewRegistry([]domain.Worker{worker}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalTimeMinutes != 15 {
		t.Errorf("expected deduped total time 15, got %v", result.TotalTimeMinutes)
	}
	if result.Workers[0].TimeMinutes != 20 {
		t.Errorf("expected worker time 20 (setup not deduped), got %v", result.Workers[0].TimeMinutes)
	}

	wantCost := (20.0 / 60) * 10
	if !approxEqual(result.TotalCost, wantCost, 1e-9) {
		t.Errorf("expected total cost %v, got %v", wantCost, result.TotalCost)
	}

	costFromTotalTime := LaborCost(result.TotalTimeMinutes, rate)
	if approxEqual(result.TotalCost, costFromTotalTime, 1e-9) {
		t.Error("worker cost must not be derived from the deduped total time")
	}
	if !approxEqual(result.TotalCost-costFromTotalTime, LaborCost(5, rate), 1e-9) {
		t.Errorf("difference should be exactly the excluded setup cost, got %v", result.TotalCost-costFromTotalTime)
	}
}

func TestAggregate_UnassignedStepsAddTimeOnly(t *testing.T) {
	worker := domain.Worker{ID: "w1", Name: "Ana", HourlyRate: 12}
	catalog := NewCatalog([]domain.StepDefinition{
		fixedStep("X", false, 3, 7, "w1"),
		fixedStep("Y", false, 2, 8, ""),
		fixedStep("Z", false, 1, 1, "deleted-worker"),
	})

	result, err := Aggregate(entries("X", "Y", "Z"), flanged(5), catalog, NewRegistry([]domain.Worker{worker}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalTimeMinutes != 22 {
		t.Errorf("expected total time 22, got %v", result.TotalTimeMinutes)
	}
	if len(result.Workers) != 1 {
		t.Fatalf("expected 1 worker bucket, got %d", len(result.Workers))
	}
	if !approxEqual(result.TotalCost, LaborCost(10, 12), 1e-12) {
		t.Errorf("expected cost only for X, got %v", result.TotalCost)
	}
	if result.Lines[2].WorkerName != "" {
		t.Error("dangling worker reference should not resolve")
	}
}

func TestAggregate_BucketsAccumulatePerWorker(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", Name: "Ana", HourlyRate: 6},
		{ID: "w2", Name: "Bia", HourlyRate: 12},
	}
	machines := []domain.Machine{{ID: "m1", Name: "Plasma CNC"}}

	x := fixedStep("X", false, 10, 20, "w2")
	x.AssignedMachineID = "m1"
	catalog := NewCatalog([]domain.StepDefinition{
		x,
		fixedStep("Y", false, 5, 25, "w1"),
		fixedStep("W", false, 0, 30, "w2"),
	})

	result, err := Aggregate(entries("X", "Y", "W"), flanged(5), catalog, NewRegistry(workers, machines))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Порядок первого появления: w2, затем w1
	if result.Workers[0].WorkerID != "w2" || result.Workers[1].WorkerID != "w1" {
		t.Fatalf("unexpected bucket order %+v", result.Workers)
	}
	if result.Workers[0].TimeMinutes != 60 || result.Workers[0].Cost != 12 {
		t.Errorf("w2: expected 60 min / 12, got %+v", result.Workers[0])
	}
	if result.Workers[1].TimeMinutes != 30 || result.Workers[1].Cost != 3 {
		t.Errorf("w1: expected 30 min / 3, got %+v", result.Workers[1])
	}
	if result.TotalCost != 15 {
		t.Errorf("expected total cost 15, got %v", result.TotalCost)
	}
	if result.Lines[0].MachineName != "Plasma CNC" {
		t.Errorf("expected machine name on line, got %q", result.Lines[0].MachineName)
	}
}

func TestAggregate_DefaultCatalogFlangedRun(t *testing.T) {
	b := NewBuilder(DefaultRules())
	catalog := testCatalog()
	params := flanged(5)

	if _, err := b.Add("corte", params, catalog); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add("plasma", params, catalog); err != nil {
		t.Fatal(err)
	}

	result, err := Aggregate(b.Entries(), params, catalog, emptyRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// corte {4,4.5}, plasma {5,7}, soldagem_base {3,7}, acabamento {5,5}
	if result.TotalSetupMinutes != 17 {
		t.Errorf("expected setup 17, got %v", result.TotalSetupMinutes)
	}
	if result.TotalOperationMinutes != 23.5 {
		t.Errorf("expected operation 23.5, got %v", result.TotalOperationMinutes)
	}
	if result.TotalCost != 0 {
		t.Errorf("no workers assigned, expected zero cost, got %v", result.TotalCost)
	}
}

func TestAggregate_GapSizeMarksLineUnresolved(t *testing.T) {
	result, err := Aggregate(entries("corte", "acabamento"), embedded(3.95), testCatalog(), emptyRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Lines[0].TierResolved {
		t.Error("corte at 3.95 should not resolve a tier")
	}
	if result.Lines[0].TotalMinutes != 0 {
		t.Errorf("expected zero time for gap, got %v", result.Lines[0].TotalMinutes)
	}
	if !result.Lines[1].TierResolved {
		t.Error("fixed step should always resolve")
	}
	if result.TotalTimeMinutes != 10 {
		t.Errorf("expected 10 minutes from acabamento only, got %v", result.TotalTimeMinutes)
	}
}

func TestAggregate_UnknownStep(t *testing.T) {
	_, err := Aggregate(entries("corte", "ghost"), embedded(2), testCatalog(), emptyRegistry())
	if !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestAggregate_EmptySequence(t *testing.T) {
	result, err := Aggregate(nil, flanged(5), testCatalog(), emptyRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalTimeMinutes != 0 || result.TotalCost != 0 || len(result.Workers) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	worker := domain.Worker{ID: "w1", Name: "Ana", HourlyRate: 7.5}
	step := plasmaStep()
	step.AssignedWorkerID = "w1"
	catalog := testCatalog(step)
	registry := NewRegistry([]domain.Worker{worker}, nil)
	seq := entries("corte", "plasma", "acabamento", "acabamento")

	first, err := Aggregate(seq, flanged(8), catalog, registry)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Aggregate(seq, flanged(8), catalog, registry)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}
