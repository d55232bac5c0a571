package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/version"
)

func TestSystemService(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		if err := testutil.NewTestSystemService(t, db).CheckHealth(ctx); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		db.Close()
		if err := testutil.NewTestSystemService(t, db).CheckHealth(ctx); err == nil {
			t.Error("Expected error for closed database")
		}
	})

	t.Run("version reports app and schema version", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		info, err := testutil.NewTestSystemService(t, db).GetVersion(ctx)
		if err != nil {
			t.Fatalf("GetVersion() returned unexpected error: %v", err)
		}
		if info.AppVersion != version.Version {
			t.Errorf("Expected app version %q, got %q", version.Version, info.AppVersion)
		}
		if info.DbVersion != "2" {
			t.Errorf("Expected db version 2, got %q", info.DbVersion)
		}
	})
}
