package services

import (
	"context"
	"encoding/json"
	"testing"

	"troskovi/internal/models"
	"troskovi/internal/pagination"
	"troskovi/internal/testutil"
)

func TestListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("newest_first_and_paginated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		events := NewEventService(db)
		ledger := NewLedgerService(db, events, nil)
		person := testutil.CreateTestPerson(t, db)

		income, err := ledger.AddIncome(ctx, person.ID, "Salary", "100", "2024-03")
		testutil.AssertNoError(t, err)
		_, err = ledger.AddIncome(ctx, person.ID, "Bonus", "50", "2024-03")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, ledger.DeleteIncome(ctx, income.ID))

		page, err := events.ListEvents(ctx, person.ID, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Data) != 2 {
			t.Fatalf("unexpected page %+v", page)
		}
		if page.Data[0].Action != models.ActionIncomeDeleted {
			t.Errorf("first action = %s, want %s", page.Data[0].Action, models.ActionIncomeDeleted)
		}

		var changes map[string]any
		if err := json.Unmarshal([]byte(page.Data[0].Changes), &changes); err != nil {
			t.Fatalf("changes not JSON: %v", err)
		}
		if changes["name"] != "Salary" {
			t.Errorf("changes = %v", changes)
		}

		second, err := events.ListEvents(ctx, person.ID, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(second.Data) != 1 || second.Data[0].Action != models.ActionIncomeCreated {
			t.Errorf("unexpected second page %+v", second.Data)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		events := NewEventService(db)
		person := testutil.CreateTestPerson(t, db)

		page, err := events.ListEvents(ctx, person.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Page != 1 || page.PageSize != pagination.DefaultPageSize || len(page.Data) != 0 {
			t.Errorf("unexpected page %+v", page)
		}
	})

	t.Run("unknown_person", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewEventService(db).ListEvents(ctx, 99999, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "PERSON_NOT_FOUND")
	})
}
