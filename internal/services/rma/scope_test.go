package rma

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/asseto/trackgo/internal/models"
)

// dryRunSession opens a gorm session that builds SQL without touching a
// database.
func dryRunSession(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=trackgo dbname=trackgo",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("Failed to open dry-run session: %v", err)
	}
	return db
}

func TestReporterConditions(t *testing.T) {
	cond, args := reporterConditions(&Identity{Name: "Alice", Email: "alice@x.com", Role: "user"})
	if cond != "reported_by_email = ? OR reported_by = ?" {
		t.Errorf("Unexpected condition: %q", cond)
	}
	if len(args) != 2 || args[0] != "alice@x.com" || args[1] != "Alice" {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestIdentityIsAdmin(t *testing.T) {
	var anon *Identity
	if anon.IsAdmin() {
		t.Error("Anonymous caller must not be admin")
	}
	if (&Identity{Role: "user"}).IsAdmin() {
		t.Error("Regular user must not be admin")
	}
	if !(&Identity{Role: "admin"}).IsAdmin() {
		t.Error("Admin role not recognized")
	}
}

func TestVisibleToGeneratedSQL(t *testing.T) {
	db := dryRunSession(t)

	admin := db.Model(&models.RMA{}).Scopes(VisibleTo(&Identity{Name: "Root", Role: "admin"})).Find(&[]models.RMA{})
	if sql := admin.Statement.SQL.String(); strings.Contains(sql, "reported_by") || strings.Contains(sql, "1 = 0") {
		t.Errorf("Admin query must be unrestricted, got %q", sql)
	}

	user := db.Model(&models.RMA{}).Scopes(VisibleTo(&Identity{Name: "Alice", Email: "alice@x.com", Role: "user"})).Find(&[]models.RMA{})
	sql := user.Statement.SQL.String()
	if !strings.Contains(sql, "reported_by_email = $1 OR reported_by = $2") {
		t.Errorf("User query missing reporter restriction: %q", sql)
	}
	vars := user.Statement.Vars
	if len(vars) != 2 || vars[0] != "alice@x.com" || vars[1] != "Alice" {
		t.Errorf("Unexpected bind vars: %v", vars)
	}

	anon := db.Model(&models.RMA{}).Scopes(VisibleTo(nil)).Find(&[]models.RMA{})
	if sql := anon.Statement.SQL.String(); !strings.Contains(sql, "1 = 0") {
		t.Errorf("Anonymous query must match nothing: %q", sql)
	}
}

func TestContactFilterIsEmpty(t *testing.T) {
	if !(ContactFilter{}).IsEmpty() {
		t.Error("Zero filter should be empty")
	}
	if (ContactFilter{Phone: "555-0100"}).IsEmpty() {
		t.Error("Filter with a phone should not be empty")
	}
	if (ContactFilter{SerialNumber: "SN-1"}).IsEmpty() {
		t.Error("Filter with a serial should not be empty")
	}
}

func TestContactScopeRequiresIdentifier(t *testing.T) {
	_, err := ContactScope(ContactFilter{})
	if err == nil {
		t.Fatal("Empty contact filter must be rejected")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected a validation error, got %T", err)
	}

	scope, err := ContactScope(ContactFilter{Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if scope == nil {
		t.Error("Expected a usable scope")
	}
}
