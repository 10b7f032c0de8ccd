// Package history stores one JSON snapshot per (person, month) under
// <root>/user_<id>/history/<YYYY-MM>.json.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/models"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// IncomeEntry is an income line as stored in a snapshot.
type IncomeEntry struct {
	ID     uint            `json:"id"`
	Name   string          `json:"naziv"`
	Amount decimal.Decimal `json:"iznos"`
}

// ExpenseEntry is an expense line as stored in a snapshot.
type ExpenseEntry struct {
	ID       uint            `json:"id"`
	Name     string          `json:"naziv"`
	Amount   decimal.Decimal `json:"iznos"`
	Category string          `json:"kategorija"`
}

// Snapshot is the persisted copy of one month's ledger. Field names are
// shared with existing consumers of the history directory.
type Snapshot struct {
	PersonID     uint            `json:"osoba_id"`
	Month        string          `json:"mesec"`
	Incomes      []IncomeEntry   `json:"prihodi"`
	Expenses     []ExpenseEntry  `json:"troskovi"`
	TotalIncome  decimal.Decimal `json:"ukupno_prihodi"`
	TotalExpense decimal.Decimal `json:"ukupno_troskovi"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// NewSnapshot builds a snapshot from ledger rows, summing the totals.
func NewSnapshot(personID uint, month string, incomes []models.Income, expenses []models.Expense, at time.Time) *Snapshot {
	snap := &Snapshot{
		PersonID:     personID,
		Month:        month,
		Incomes:      make([]IncomeEntry, 0, len(incomes)),
		Expenses:     make([]ExpenseEntry, 0, len(expenses)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		GeneratedAt:  at,
	}
	for _, in := range incomes {
		snap.Incomes = append(snap.Incomes, IncomeEntry{ID: in.ID, Name: in.Name, Amount: in.Amount})
		snap.TotalIncome = snap.TotalIncome.Add(in.Amount)
	}
	for _, ex := range expenses {
		snap.Expenses = append(snap.Expenses, ExpenseEntry{
			ID:       ex.ID,
			Name:     ex.Name,
			Amount:   ex.Amount,
			Category: ex.Category.Name,
		})
		snap.TotalExpense = snap.TotalExpense.Add(ex.Amount)
	}
	return snap
}

// Store reads and writes snapshot files below a data root.
type Store struct {
	root string
}

// NewStore creates a Store rooted at root. Directories are created lazily.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// PersonDir is the per-person namespace, also used for export copies.
func (s *Store) PersonDir(personID uint) string {
	return filepath.Join(s.root, fmt.Sprintf("user_%d", personID))
}

func (s *Store) historyDir(personID uint) string {
	return filepath.Join(s.PersonDir(personID), "history")
}

// Path returns the snapshot file of (personID, month).
func (s *Store) Path(personID uint, month string) string {
	return filepath.Join(s.historyDir(personID), month+".json")
}

// Write replaces the snapshot file atomically.
func (s *Store) Write(snap *Snapshot) error {
	if _, err := models.ParseMonth(snap.Month); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrSnapshotWrite, fmt.Errorf("encode snapshot: %w", err))
	}
	if err := WriteFileAtomic(s.Path(snap.PersonID, snap.Month), payload); err != nil {
		return apperrors.Wrap(apperrors.ErrSnapshotWrite, err)
	}
	return nil
}

// Read loads the snapshot of (personID, month).
func (s *Store) Read(personID uint, month string) (*Snapshot, error) {
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.Path(personID, month))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("decode snapshot %s: %w", month, err))
	}
	return &snap, nil
}

// Months lists the months with a snapshot, newest first.
func (s *Store) Months(personID uint) ([]string, error) {
	entries, err := os.ReadDir(s.historyDir(personID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	months := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		month := strings.TrimSuffix(name, ".json")
		if _, err := models.ParseMonth(month); err != nil {
			continue
		}
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// RemovePerson deletes the whole per-person namespace.
func (s *Store) RemovePerson(personID uint) error {
	return os.RemoveAll(s.PersonDir(personID))
}

// WriteFileAtomic writes data next to path and renames it into place, so
// readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
