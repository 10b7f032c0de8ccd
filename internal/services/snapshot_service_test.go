package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"troskovi/internal/dispatch"
	"troskovi/internal/history"
	"troskovi/internal/testutil"
)

func TestSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("matches_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := history.NewStore(t.TempDir())
		snapshots := NewSnapshotService(db, store)
		ledger := NewLedgerService(db, nil, dispatch.NewSync(snapshots.Snapshot))
		person := testutil.CreateTestPerson(t, db)
		cat := testutil.CreateTestCategory(t, db, "Groceries")

		income, err := ledger.AddIncome(ctx, person.ID, "Salary", "1000", "2024-03")
		testutil.AssertNoError(t, err)
		expense, err := ledger.AddExpense(ctx, person.ID, cat.ID, "Food", "200", "2024-03", "")
		testutil.AssertNoError(t, err)

		snap, err := snapshots.GetSnapshot(ctx, person.ID, "2024-03")
		testutil.AssertNoError(t, err)

		if snap.PersonID != person.ID || snap.Month != "2024-03" {
			t.Errorf("header = %d/%s", snap.PersonID, snap.Month)
		}
		if len(snap.Incomes) != 1 || snap.Incomes[0].ID != income.ID || snap.Incomes[0].Name != "Salary" {
			t.Fatalf("incomes = %+v", snap.Incomes)
		}
		testutil.AssertDecimal(t, snap.Incomes[0].Amount, "1000")
		if len(snap.Expenses) != 1 || snap.Expenses[0].ID != expense.ID || snap.Expenses[0].Category != "Groceries" {
			t.Fatalf("expenses = %+v", snap.Expenses)
		}
		testutil.AssertDecimal(t, snap.Expenses[0].Amount, "200")
		testutil.AssertDecimal(t, snap.TotalIncome, "1000")
		testutil.AssertDecimal(t, snap.TotalExpense, "200")

		if _, err := os.Stat(filepath.Join(store.PersonDir(person.ID), "history", "2024-03.json")); err != nil {
			t.Errorf("snapshot file missing: %v", err)
		}
	})

	t.Run("overwritten_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		snapshots := NewSnapshotService(db, history.NewStore(t.TempDir()))
		ledger := NewLedgerService(db, nil, dispatch.NewSync(snapshots.Snapshot))
		person := testutil.CreateTestPerson(t, db)

		income, err := ledger.AddIncome(ctx, person.ID, "Salary", "1000", "2024-03")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, ledger.DeleteIncome(ctx, income.ID))

		snap, err := snapshots.GetSnapshot(ctx, person.ID, "2024-03")
		testutil.AssertNoError(t, err)
		if len(snap.Incomes) != 0 {
			t.Errorf("deleted income still in snapshot: %+v", snap.Incomes)
		}
		testutil.AssertDecimal(t, snap.TotalIncome, "0")
	})

	t.Run("generated_at_from_clock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSnapshotService(db, history.NewStore(t.TempDir())).(*snapshotService)
		fixed := time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }
		person := testutil.CreateTestPerson(t, db)

		testutil.AssertNoError(t, svc.Snapshot(ctx, person.ID, "2024-03"))
		snap, err := svc.GetSnapshot(ctx, person.ID, "2024-03")
		testutil.AssertNoError(t, err)
		if !snap.GeneratedAt.Equal(fixed) {
			t.Errorf("generated_at = %v, want %v", snap.GeneratedAt, fixed)
		}
	})

	t.Run("missing_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSnapshotService(db, history.NewStore(t.TempDir()))
		person := testutil.CreateTestPerson(t, db)

		_, err := svc.GetSnapshot(ctx, person.ID, "2024-03")
		testutil.AssertAppError(t, err, "SNAPSHOT_NOT_FOUND")
	})

	t.Run("unknown_person", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSnapshotService(db, history.NewStore(t.TempDir()))

		testutil.AssertAppError(t, svc.Snapshot(ctx, 99999, "2024-03"), "PERSON_NOT_FOUND")
	})
}

func TestRebuildAll(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites_every_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		snapshots := NewSnapshotService(db, history.NewStore(t.TempDir()))
		ledger := NewLedgerService(db, nil, nil)
		a := testutil.CreateTestPerson(t, db)
		b := testutil.CreateTestPerson(t, db)

		for _, m := range []string{"2024-01", "2024-02"} {
			_, err := ledger.AddIncome(ctx, a.ID, "Salary", "100", m)
			testutil.AssertNoError(t, err)
		}
		_, err := ledger.AddIncome(ctx, b.ID, "Salary", "100", "2024-02")
		testutil.AssertNoError(t, err)

		n, err := snapshots.RebuildAll(ctx)
		testutil.AssertNoError(t, err)
		if n != 3 {
			t.Errorf("rebuilt %d snapshots, want 3", n)
		}

		months, err := snapshots.ListSnapshotMonths(ctx, a.ID)
		testutil.AssertNoError(t, err)
		if len(months) != 2 || months[0] != "2024-02" || months[1] != "2024-01" {
			t.Errorf("months = %v", months)
		}
	})

	t.Run("reports_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		root := filepath.Join(t.TempDir(), "data")
		if err := os.WriteFile(root, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		snapshots := NewSnapshotService(db, history.NewStore(root))
		ledger := NewLedgerService(db, nil, nil)
		person := testutil.CreateTestPerson(t, db)

		_, err := ledger.AddIncome(ctx, person.ID, "Salary", "100", "2024-01")
		testutil.AssertNoError(t, err)

		n, err := snapshots.RebuildAll(ctx)
		testutil.AssertAppError(t, err, "SNAPSHOT_WRITE_FAILED")
		if n != 0 {
			t.Errorf("rebuilt %d, want 0", n)
		}
	})
}
