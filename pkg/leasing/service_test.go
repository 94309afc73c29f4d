package leasing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// Integration tests run against a real Postgres set via TEST_DATABASE_URL
// with the migrations applied. They are skipped otherwise.
func testService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping leasing test - set TEST_DATABASE_URL to run")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewService(db,
		repository.NewTenantsRepository(db),
		repository.NewUnitsRepository(db),
		repository.NewPropertiesRepository(db),
	)
	return svc, db
}

func seedProperty(t *testing.T, db *sql.DB) *domain.Property {
	t.Helper()
	now := time.Now()
	p := &domain.Property{
		ID:        uuid.New(),
		Name:      "Leasing Test " + uuid.NewString()[:8],
		Location:  "Testville",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repository.NewPropertiesRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("create property: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM properties WHERE id = $1", p.ID)
	})
	return p
}

func seedUnit(t *testing.T, db *sql.DB, propertyID uuid.UUID) *domain.Unit {
	t.Helper()
	now := time.Now()
	u := &domain.Unit{
		ID:         uuid.New(),
		PropertyID: propertyID,
		UnitNumber: fmt.Sprintf("L-%s", uuid.NewString()[:8]),
		Rent:       950,
		Status:     domain.UnitStatusVacant,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repository.NewUnitsRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create unit: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM units WHERE id = $1", u.ID)
	})
	return u
}

func seedTenant(t *testing.T, db *sql.DB) *domain.Tenant {
	t.Helper()
	now := time.Now()
	tn := &domain.Tenant{
		ID:        uuid.New(),
		Name:      "Leasing Tenant",
		Email:     uuid.NewString()[:8] + "@example.com",
		Status:    domain.TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repository.NewTenantsRepository(db).Create(context.Background(), tn); err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM tenants WHERE id = $1", tn.ID)
	})
	return tn
}

func TestAssignUnassignRoundTrip(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	prop := seedProperty(t, db)
	unit := seedUnit(t, db, prop.ID)
	tenant := seedTenant(t, db)

	if err := svc.Assign(ctx, tenant.ID, unit.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	gotUnit, err := repository.NewUnitsRepository(db).GetByID(ctx, unit.ID)
	if err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if gotUnit.Status != domain.UnitStatusOccupied || gotUnit.TenantID == nil || *gotUnit.TenantID != tenant.ID {
		t.Errorf("unit side after assign: status=%q tenant=%v", gotUnit.Status, gotUnit.TenantID)
	}
	gotTenant, err := repository.NewTenantsRepository(db).GetByID(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("get tenant: %v", err)
	}
	if gotTenant.UnitID == nil || *gotTenant.UnitID != unit.ID {
		t.Errorf("tenant unit after assign: %v", gotTenant.UnitID)
	}
	if gotTenant.PropertyID == nil || *gotTenant.PropertyID != prop.ID {
		t.Errorf("tenant property after assign: %v", gotTenant.PropertyID)
	}

	if err := svc.Unassign(ctx, tenant.ID); err != nil {
		t.Fatalf("unassign: %v", err)
	}

	gotUnit, err = repository.NewUnitsRepository(db).GetByID(ctx, unit.ID)
	if err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if gotUnit.Status != domain.UnitStatusVacant || gotUnit.TenantID != nil {
		t.Errorf("unit side after unassign: status=%q tenant=%v", gotUnit.Status, gotUnit.TenantID)
	}
	gotTenant, err = repository.NewTenantsRepository(db).GetByID(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("get tenant: %v", err)
	}
	if gotTenant.UnitID != nil || gotTenant.PropertyID != nil {
		t.Errorf("tenant side after unassign: unit=%v property=%v", gotTenant.UnitID, gotTenant.PropertyID)
	}

	// Unassigning an unassigned tenant is a no-op.
	if err := svc.Unassign(ctx, tenant.ID); err != nil {
		t.Errorf("second unassign: %v", err)
	}
}

func TestAssign_Conflicts(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	prop := seedProperty(t, db)
	unit := seedUnit(t, db, prop.ID)
	other := seedUnit(t, db, prop.ID)
	first := seedTenant(t, db)
	second := seedTenant(t, db)

	if err := svc.Assign(ctx, first.ID, unit.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.Assign(ctx, second.ID, unit.ID); !errors.Is(err, domain.ErrUnitOccupied) {
		t.Errorf("assign to occupied unit: got %v, want ErrUnitOccupied", err)
	}
	if err := svc.Assign(ctx, first.ID, other.ID); !errors.Is(err, domain.ErrTenantAlreadyAssigned) {
		t.Errorf("assign assigned tenant: got %v, want ErrTenantAlreadyAssigned", err)
	}

	if err := svc.Unassign(ctx, first.ID); err != nil {
		t.Fatalf("unassign: %v", err)
	}
}

func TestDeleteProperty_Guard(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	prop := seedProperty(t, db)
	unit := seedUnit(t, db, prop.ID)

	if err := svc.DeleteProperty(ctx, prop.ID); !errors.Is(err, domain.ErrPropertyHasUnits) {
		t.Errorf("delete property with units: got %v, want ErrPropertyHasUnits", err)
	}

	if err := repository.NewUnitsRepository(db).Delete(ctx, unit.ID); err != nil {
		t.Fatalf("delete unit: %v", err)
	}
	if err := svc.DeleteProperty(ctx, prop.ID); err != nil {
		t.Errorf("delete empty property: %v", err)
	}
}
