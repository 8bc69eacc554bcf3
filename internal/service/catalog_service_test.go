package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/consultancy-service/internal/domain"
	apperrors "github.com/spec-kit/consultancy-service/pkg/util/errorutil"
)

type catalogTestEnv struct {
	catalog *fakeCatalogRepo
	windows *fakeWindowRepo
	cache   *fakeCache
	service *CatalogService
	admin   *domain.User
	student *domain.User
}

func newCatalogTestEnv(t *testing.T) *catalogTestEnv {
	t.Helper()
	env := &catalogTestEnv{
		catalog: newFakeCatalogRepo(),
		windows: newFakeWindowRepo(),
		cache:   newFakeCache(),
		admin:   &domain.User{ID: "admin", Role: domain.RoleAdmin, Status: domain.UserStatusActive},
		student: &domain.User{ID: "student", Role: domain.RoleStudent, Status: domain.UserStatusActive},
	}
	env.service = NewCatalogService(env.catalog, env.windows, env.cache, 5*time.Minute)
	return env
}

func (env *catalogTestEnv) createService(t *testing.T, input ServiceInput) *domain.Service {
	t.Helper()
	if input.CategoryID == "" {
		category, err := env.service.CreateCategory(context.Background(), env.admin, CategoryInput{Name: "Consulting", IsActive: true})
		if err != nil {
			t.Fatal(err)
		}
		input.CategoryID = category.ID
	}
	svc, err := env.service.CreateService(context.Background(), env.admin, input)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	env := newCatalogTestEnv(t)

	_, err := env.service.CreateCategory(context.Background(), env.student, CategoryInput{Name: "Nope"})
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestPublicListingUsesCache(t *testing.T) {
	env := newCatalogTestEnv(t)
	ctx := context.Background()
	env.createService(t, ServiceInput{Name: "Essay Review", PricingType: domain.PricingFree, Visibility: domain.VisibilityPublic, IsActive: true})

	first, err := env.service.ListPublicServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("listing = %d services, want 1", len(first))
	}
	if env.cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", env.cache.sets)
	}

	second, err := env.service.ListPublicServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 {
		t.Fatalf("cached listing = %d services, want 1", len(second))
	}
	if env.cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", env.cache.hits)
	}
}

func TestAdminWritesInvalidateCache(t *testing.T) {
	env := newCatalogTestEnv(t)
	ctx := context.Background()
	svc := env.createService(t, ServiceInput{Name: "Visa Help", PricingType: domain.PricingFree, Visibility: domain.VisibilityPublic, IsActive: true})

	if _, err := env.service.ListPublicServices(ctx); err != nil {
		t.Fatal(err)
	}

	input := ServiceInput{
		CategoryID:  svc.CategoryID,
		Name:        "Visa Help Plus",
		PricingType: domain.PricingFree,
		Visibility:  domain.VisibilityPublic,
		IsActive:    true,
	}
	if _, err := env.service.UpdateService(ctx, env.admin, svc.ID, input); err != nil {
		t.Fatal(err)
	}

	services, err := env.service.ListPublicServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 || services[0].Name != "Visa Help Plus" {
		t.Errorf("stale listing after update: %+v", services)
	}
}

func TestPrivateServiceVisibility(t *testing.T) {
	env := newCatalogTestEnv(t)
	ctx := context.Background()
	svc := env.createService(t, ServiceInput{Name: "Partner Track", PricingType: domain.PricingFree, Visibility: domain.VisibilityPrivate, IsActive: true})

	_, err := env.service.GetService(ctx, env.student, svc.ID)
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND for student on private service, got %v", err)
	}
	if _, err := env.service.GetService(ctx, env.admin, svc.ID); err != nil {
		t.Fatalf("admin must see private service: %v", err)
	}

	public, err := env.service.ListPublicServices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(public) != 0 {
		t.Errorf("private service leaked into public listing: %+v", public)
	}
}

func TestAddWindowRejectsOverlap(t *testing.T) {
	env := newCatalogTestEnv(t)
	ctx := context.Background()
	svc := env.createService(t, ServiceInput{Name: "Interview Prep", PricingType: domain.PricingFree, Visibility: domain.VisibilityPublic, IsActive: true})

	start := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	if _, err := env.service.AddWindow(ctx, env.admin, svc.ID, WindowInput{StartsAt: start, EndsAt: start.Add(2 * time.Hour), Capacity: 5}); err != nil {
		t.Fatalf("first window: %v", err)
	}

	_, err := env.service.AddWindow(ctx, env.admin, svc.ID, WindowInput{StartsAt: start.Add(time.Hour), EndsAt: start.Add(3 * time.Hour), Capacity: 5})
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT for overlapping window, got %v", err)
	}

	// Adjacent windows are fine.
	if _, err := env.service.AddWindow(ctx, env.admin, svc.ID, WindowInput{StartsAt: start.Add(2 * time.Hour), EndsAt: start.Add(4 * time.Hour), Capacity: 5}); err != nil {
		t.Fatalf("adjacent window: %v", err)
	}
}

func TestAddWindowValidation(t *testing.T) {
	env := newCatalogTestEnv(t)
	ctx := context.Background()
	svc := env.createService(t, ServiceInput{Name: "Doc Check", PricingType: domain.PricingFree, Visibility: domain.VisibilityPublic, IsActive: true})

	start := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)

	_, err := env.service.AddWindow(ctx, env.admin, svc.ID, WindowInput{StartsAt: start, EndsAt: start, Capacity: 1})
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED for empty interval, got %v", err)
	}

	_, err = env.service.AddWindow(ctx, env.admin, svc.ID, WindowInput{StartsAt: start, EndsAt: start.Add(time.Hour), Capacity: 0})
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED for zero capacity, got %v", err)
	}
}
