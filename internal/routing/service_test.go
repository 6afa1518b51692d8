package routing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shaiso/routecost/internal/catalog"
	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/engine"
	"github.com/shaiso/routecost/internal/repo"
	"github.com/shaiso/routecost/internal/telemetry"
)

type fakePublisher struct {
	events []domain.Product
	err    error
}

func (p *fakePublisher) PublishCostAssociated(_ context.Context, product *domain.Product) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *product)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakePublisher) {
	t.Helper()

	store := repo.NewMemoryBlobStore()
	pub := &fakePublisher{}
	svc := New(Config{
		Steps:     repo.NewStepRepo(store),
		Workers:   repo.NewWorkerRepo(store),
		Machines:  repo.NewMachineRepo(store),
		Materials: repo.NewMaterialRepo(store),
		Products:  repo.NewProductRepo(store),
		Publisher: pub,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	seed, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	if _, err := svc.SeedCatalog(context.Background(), seed); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return svc, pub
}

func sessionStepIDs(s Session) []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.StepID
	}
	return ids
}

// assignWorker назначает сотрудника шагу каталога.
func assignWorker(t *testing.T, svc *Service, stepID, workerID string) {
	t.Helper()
	ctx := context.Background()

	step, err := svc.GetStep(ctx, stepID)
	if err != nil {
		t.Fatal(err)
	}
	step.AssignedWorkerID = workerID
	if _, err := svc.UpsertStep(ctx, *step); err != nil {
		t.Fatalf("assign worker: %v", err)
	}
}

func TestService_SeedCatalogOnlyOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed, _ := catalog.Default()
	seeded, err := svc.SeedCatalog(ctx, seed)
	if err != nil {
		t.Fatal(err)
	}
	if seeded {
		t.Error("catalog should not be reseeded when it is not empty")
	}

	steps, _ := svc.ListSteps(ctx)
	if len(steps) != 4 {
		t.Errorf("expected 4 steps, got %d", len(steps))
	}
}

func TestService_AddStepExpandsAndComputes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetParameters(ctx, domain.RunParameters{Size: 5, Mounting: domain.MountingFlanged}); err != nil {
		t.Fatal(err)
	}

	added, err := svc.AddStep(ctx, "plasma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(added) != 3 {
		t.Fatalf("expected plasma plus two implied steps, got %d", len(added))
	}

	result, err := svc.Compute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// plasma {5,7} + soldagem_base {3,7} + acabamento {5,5}
	if result.TotalSetupMinutes != 13 || result.TotalOperationMinutes != 19 {
		t.Errorf("expected setup 13 / operation 19, got %v / %v",
			result.TotalSetupMinutes, result.TotalOperationMinutes)
	}
	if result.TotalTimeMinutes != 32 {
		t.Errorf("expected total 32, got %v", result.TotalTimeMinutes)
	}
	if result.TotalCost != 0 || len(result.Workers) != 0 {
		t.Errorf("no workers assigned, expected zero cost, got %+v", result.Workers)
	}
}

func TestService_AddUnknownStepLeavesSessionUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddStep(ctx, "corte"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.AddStep(ctx, "laser")
	if !errors.Is(err, engine.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}

	if ids := sessionStepIDs(svc.Session()); len(ids) != 1 || ids[0] != "corte" {
		t.Errorf("session should be unchanged, got %v", ids)
	}
}

func TestService_ParametersAndRemoval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.SetParameters(ctx, domain.RunParameters{Size: math.NaN(), Mounting: domain.MountingFlanged})
	if !errors.Is(err, engine.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
	if svc.Session().Parameters != domain.DefaultRunParameters() {
		t.Error("failed SetParameters should not change the session")
	}

	svc.AddStep(ctx, "corte")
	if _, err := svc.RemoveStep(ctx, 3); !errors.Is(err, engine.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	removed, err := svc.RemoveStep(ctx, 0)
	if err != nil || removed.StepID != "corte" {
		t.Errorf("expected to remove corte, got %+v err=%v", removed, err)
	}

	svc.AddStep(ctx, "acabamento")
	svc.SetParameters(ctx, domain.RunParameters{Size: 8, Mounting: domain.MountingEmbedded})
	svc.Reset(ctx)

	session := svc.Session()
	if len(session.Entries) != 0 || session.Parameters != domain.DefaultRunParameters() {
		t.Errorf("unexpected session after reset: %+v", session)
	}
}

func TestService_AssociateCurrent(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	worker, err := svc.CreateWorker(ctx, "Ana", 2200)
	if err != nil {
		t.Fatal(err)
	}
	assignWorker(t, svc, "plasma", worker.ID)

	material, _, err := svc.UpsertMaterial(ctx, "Tubo", 100)
	if err != nil {
		t.Fatal(err)
	}
	product, err := svc.CreateProduct(ctx, ProductInput{
		Name:      "Poste",
		SKU:       "P-1",
		SalePrice: 500,
		Materials: []domain.MaterialUsage{{MaterialID: material.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if product.TotalEstimatedCost != 150 {
		t.Fatalf("expected simulated total 150, got %v", product.TotalEstimatedCost)
	}

	svc.SetParameters(ctx, domain.RunParameters{Size: 5, Mounting: domain.MountingEmbedded})
	if _, err := svc.AddStep(ctx, "plasma"); err != nil {
		t.Fatal(err)
	}

	updated, result, err := svc.AssociateCurrent(ctx, product.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// plasma embedded size 5: {1,3} → 4 минуты по 10/ч
	wantLabor := 4.0 / 60 * 10
	if math.Abs(result.TotalCost-wantLabor) > 1e-9 {
		t.Errorf("expected labor %v, got %v", wantLabor, result.TotalCost)
	}
	if math.Abs(updated.TotalEstimatedCost-(100+wantLabor)) > 1e-9 {
		t.Errorf("unexpected total %v", updated.TotalEstimatedCost)
	}

	stored, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.LaborCostFromRouting == nil || *stored.LaborCostFromRouting != result.TotalCost {
		t.Errorf("product was not persisted: %+v", stored)
	}
	if stored.TotalCost != stored.TotalEstimatedCost {
		t.Error("legacy total should mirror estimated total")
	}

	if len(pub.events) != 1 || pub.events[0].ID != product.ID {
		t.Errorf("expected one cost event, got %+v", pub.events)
	}
}

func TestService_AssociateOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	material, _, _ := svc.UpsertMaterial(ctx, "Tubo", 100)
	product, err := svc.CreateProduct(ctx, ProductInput{
		Name:      "Poste",
		Materials: []domain.MaterialUsage{{MaterialID: material.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AssociateToProduct(ctx, product.ID, 75); err != nil {
		t.Fatal(err)
	}
	updated, err := svc.AssociateToProduct(ctx, product.ID, 60)
	if err != nil {
		t.Fatal(err)
	}
	if updated.TotalEstimatedCost != 160 {
		t.Errorf("expected 160, got %v", updated.TotalEstimatedCost)
	}
}

func TestService_AssociateMissingProduct(t *testing.T) {
	svc, pub := newTestService(t)

	_, err := svc.AssociateToProduct(context.Background(), "ghost", 10)
	if !errors.Is(err, engine.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published on failure")
	}
}

func TestService_PublishFailureKeepsAssociation(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()
	pub.err = errors.New("broker down")

	material, _, _ := svc.UpsertMaterial(ctx, "Tubo", 10)
	product, _ := svc.CreateProduct(ctx, ProductInput{
		Name:      "Poste",
		Materials: []domain.MaterialUsage{{MaterialID: material.ID, Quantity: 2}},
	})

	if _, err := svc.AssociateToProduct(ctx, product.ID, 5); err != nil {
		t.Fatalf("publish failure should not fail the association: %v", err)
	}

	stored, _ := svc.GetProduct(ctx, product.ID)
	if stored.TotalEstimatedCost != 25 {
		t.Errorf("expected total 25, got %v", stored.TotalEstimatedCost)
	}
}

func TestService_DeleteWorkerReferenced(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	worker, _ := svc.CreateWorker(ctx, "Ana", 2200)
	assignWorker(t, svc, "corte", worker.ID)
	machine, err := svc.CreateMachine(ctx, "Serra Fita", "Serralheria", worker.ID)
	if err != nil {
		t.Fatal(err)
	}

	err = svc.DeleteWorker(ctx, worker.ID)
	var conflict *engine.ReferenceConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ReferenceConflictError, got %v", err)
	}
	if len(conflict.Machines) != 1 || conflict.Machines[0] != "Serra Fita" {
		t.Errorf("unexpected machines %v", conflict.Machines)
	}
	if len(conflict.Steps) != 1 || conflict.Steps[0] != "Corte" {
		t.Errorf("unexpected steps %v", conflict.Steps)
	}

	workers, _ := svc.ListWorkers(ctx)
	if len(workers) != 1 {
		t.Fatal("rejected deletion should keep the worker")
	}

	// после переназначения удаление проходит
	assignWorker(t, svc, "corte", "")
	if err := svc.DeleteMachine(ctx, machine.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteWorker(ctx, worker.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteWorker(ctx, worker.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeleteMachineReferencedByStep(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	machine, _ := svc.CreateMachine(ctx, "Plasma CNC", "Serralheria", "")
	step, _ := svc.GetStep(ctx, "plasma")
	step.AssignedMachineID = machine.ID
	if _, err := svc.UpsertStep(ctx, *step); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteMachine(ctx, machine.ID); !errors.Is(err, engine.ErrReferenceConflict) {
		t.Errorf("expected ErrReferenceConflict, got %v", err)
	}
	if err := svc.DeleteMachine(ctx, "ghost"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_CreateMachineRequiresExistingWorker(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateMachine(context.Background(), "Serra", "Corte", "ghost")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestService_UpsertStepValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := domain.StepDefinition{
		ID:      "pintura",
		Name:    "Pintura",
		Sector:  "Expedição",
		Profile: domain.TimeProfile{Kind: domain.ProfileSizeTiered},
	}
	if _, err := svc.UpsertStep(ctx, bad); !errors.Is(err, engine.ErrInvalidProfile) {
		t.Errorf("expected ErrInvalidProfile, got %v", err)
	}

	dangling := domain.StepDefinition{
		ID:               "pintura",
		Name:             "Pintura",
		Sector:           "Expedição",
		AssignedWorkerID: "ghost",
		Profile:          domain.FixedProfile(2, 8),
	}
	_, err := svc.UpsertStep(ctx, dangling)
	var vErr *engine.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "assigned_worker_id" {
		t.Errorf("expected assigned_worker_id validation error, got %v", err)
	}

	dangling.AssignedWorkerID = ""
	created, err := svc.UpsertStep(ctx, dangling)
	if err != nil || !created {
		t.Errorf("expected new step, created=%v err=%v", created, err)
	}
}

func TestService_DeleteStepPrunesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.AddStep(ctx, "plasma")
	if err := svc.DeleteStep(ctx, "soldagem_base"); err != nil {
		t.Fatal(err)
	}

	ids := sessionStepIDs(svc.Session())
	if len(ids) != 2 || ids[0] != "plasma" || ids[1] != "acabamento" {
		t.Errorf("unexpected session %v", ids)
	}
	if _, err := svc.Compute(ctx); err != nil {
		t.Errorf("session should stay computable, got %v", err)
	}

	if err := svc.DeleteStep(ctx, "soldagem_base"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// gatedSteps задерживает первый List после взвода до закрытия release.
type gatedSteps struct {
	*repo.StepRepo
	armed   atomic.Bool
	listed  chan struct{}
	release chan struct{}
}

func (g *gatedSteps) List(ctx context.Context) ([]domain.StepDefinition, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.listed)
		<-g.release
	}
	return g.StepRepo.List(ctx)
}

func TestService_DeleteStepWaitsForConcurrentAdd(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	steps := &gatedSteps{
		StepRepo: repo.NewStepRepo(store),
		listed:   make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := New(Config{
		Steps:     steps,
		Workers:   repo.NewWorkerRepo(store),
		Machines:  repo.NewMachineRepo(store),
		Materials: repo.NewMaterialRepo(store),
		Products:  repo.NewProductRepo(store),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ctx := context.Background()

	seed, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SeedCatalog(ctx, seed); err != nil {
		t.Fatal(err)
	}
	steps.armed.Store(true)

	addDone := make(chan error, 1)
	go func() {
		_, err := svc.AddStep(ctx, "corte")
		addDone <- err
	}()
	<-steps.listed

	deleteDone := make(chan error, 1)
	go func() { deleteDone <- svc.DeleteStep(ctx, "corte") }()

	select {
	case err := <-deleteDone:
		close(steps.release)
		t.Fatalf("delete finished while add was reading the catalog: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(steps.release)

	if err := <-addDone; err != nil {
		t.Fatalf("add step: %v", err)
	}
	if err := <-deleteDone; err != nil {
		t.Fatalf("delete step: %v", err)
	}

	if ids := sessionStepIDs(svc.Session()); len(ids) != 0 {
		t.Errorf("deleted step should be pruned, got %v", ids)
	}
	if _, err := svc.Compute(ctx); err != nil {
		t.Errorf("session should stay computable, got %v", err)
	}
}

func TestService_SessionLogsThroughContextLogger(t *testing.T) {
	svc, _ := newTestService(t)

	var buf bytes.Buffer
	reqLogger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := telemetry.WithLogger(context.Background(), reqLogger)

	if _, err := svc.AddStep(ctx, "corte"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetParameters(ctx, domain.RunParameters{Size: 5, Mounting: domain.MountingFlanged}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RemoveStep(ctx, 0); err != nil {
		t.Fatal(err)
	}
	svc.Reset(ctx)

	out := buf.String()
	for _, msg := range []string{
		"step added to routing",
		"run parameters set",
		"step removed from routing",
		"routing session reset",
	} {
		if !strings.Contains(out, msg) {
			t.Errorf("context logger should receive %q:\n%s", msg, out)
		}
	}
}

func TestService_Products(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "Poste"}); !errors.Is(err, ErrValidation) {
		t.Errorf("product without materials: expected ErrValidation, got %v", err)
	}
	_, err := svc.CreateProduct(ctx, ProductInput{
		Name:      "Poste",
		Materials: []domain.MaterialUsage{{MaterialID: "ghost", Quantity: 1}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("unknown material: expected ErrValidation, got %v", err)
	}

	tubo, _, _ := svc.UpsertMaterial(ctx, "Tubo", 40)
	tinta, _, _ := svc.UpsertMaterial(ctx, "Tinta", 12)

	product, err := svc.CreateProduct(ctx, ProductInput{
		Name: "Poste",
		Materials: []domain.MaterialUsage{
			{MaterialID: tubo.ID, Quantity: 1},
			{MaterialID: tinta.ID, Quantity: 0.5},
			{MaterialID: tubo.ID, Quantity: 2.5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// повтор материала заменяет количество: 40*2.5 + 12*0.5
	if product.MaterialCost != 106 || len(product.Materials) != 2 {
		t.Errorf("unexpected composition %+v cost %v", product.Materials, product.MaterialCost)
	}

	if _, err := svc.AssociateToProduct(ctx, product.ID, 20); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{
		Name:      "Poste Reforçado",
		Materials: []domain.MaterialUsage{{MaterialID: tubo.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.TotalEstimatedCost != 140 {
		t.Errorf("update should keep routing labor: expected 140, got %v", updated.TotalEstimatedCost)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetProduct(ctx, product.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_MaterialUpsertValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.UpsertMaterial(ctx, "  ", 1); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}
	if _, _, err := svc.UpsertMaterial(ctx, "Tubo", -1); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for negative cost, got %v", err)
	}

	first, _, _ := svc.UpsertMaterial(ctx, "Tubo", 10)
	second, created, _ := svc.UpsertMaterial(ctx, "tubo", 12)
	if created || second.ID != first.ID {
		t.Error("same name should update the existing material")
	}

	if err := svc.DeleteMaterial(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	materials, _ := svc.ListMaterials(ctx)
	if len(materials) != 0 {
		t.Errorf("expected no materials, got %d", len(materials))
	}
}
