package services

import (
	"context"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"troskovi/internal/history"
	"troskovi/internal/logger"
	"troskovi/internal/models"
	"troskovi/internal/report"
)

// ExportOptions configures document exports.
type ExportOptions struct {
	// UploadDir holds person photos referenced by file name.
	UploadDir string
	// KeepCopy also stores each export in the person's data directory.
	KeepCopy bool
	// RenderOptions are passed to every renderer.
	RenderOptions []report.Option
}

// exportService renders monthly documents. It only reads the ledger.
type exportService struct {
	db    *gorm.DB
	store *history.Store
	opts  ExportOptions
	now   func() time.Time
}

// NewExportService creates a new ExportServicer.
func NewExportService(db *gorm.DB, store *history.Store, opts ExportOptions) ExportServicer {
	return &exportService{
		db:    db,
		store: store,
		opts:  opts,
		now:   time.Now,
	}
}

// Render builds the document of (personID, month) in the given format.
func (s *exportService) Render(ctx context.Context, format report.Format, personID uint, month string) (*report.File, error) {
	format, err := report.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if _, err := models.ParseMonth(month); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	person, err := getPerson(db, personID)
	if err != nil {
		return nil, err
	}
	incomes, expenses, err := loadMonth(db, personID, month)
	if err != nil {
		return nil, err
	}

	in := report.Input{
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Month:       month,
		GeneratedAt: s.now(),
	}
	if person.Photo != "" && s.opts.UploadDir != "" {
		in.PhotoPath = filepath.Join(s.opts.UploadDir, person.Photo)
	}
	for _, row := range incomes {
		in.Incomes = append(in.Incomes, report.IncomeLine{Name: row.Name, Amount: row.Amount})
	}
	for _, row := range expenses {
		in.Expenses = append(in.Expenses, report.ExpenseLine{
			Category: row.Category.Name,
			Name:     row.Name,
			Amount:   row.Amount,
		})
	}

	file, err := report.Render(format, report.Build(in), s.opts.RenderOptions...)
	if err != nil {
		logger.Get().Errorw("Failed to render report", "person_id", personID, "month", month, "format", format, "error", err)
		return nil, err
	}

	if s.opts.KeepCopy && s.store != nil {
		path := filepath.Join(s.store.PersonDir(personID), filepath.Base(file.Name))
		if err := history.WriteFileAtomic(path, file.Data); err != nil {
			logger.Get().Warnw("Failed to keep export copy", "person_id", personID, "path", path, "error", err)
		}
	}
	return file, nil
}
