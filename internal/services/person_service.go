package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/history"
	"troskovi/internal/logger"
	"troskovi/internal/models"
)

// personService handles ledger owners.
type personService struct {
	db    *gorm.DB
	store *history.Store
}

// NewPersonService creates a new PersonServicer. store may be nil when no
// history directory is managed.
func NewPersonService(db *gorm.DB, store *history.Store) PersonServicer {
	return &personService{db: db, store: store}
}

// CreatePerson registers a new person
func (s *personService) CreatePerson(ctx context.Context, firstName, lastName string, birthDate time.Time, photo string) (*models.Person, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "first and last name are required")
	}
	if birthDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "birth date is required")
	}
	photo, err := cleanPhoto(photo)
	if err != nil {
		return nil, err
	}

	person := &models.Person{
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		Photo:     photo,
	}
	if err := s.db.WithContext(ctx).Create(person).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return person, nil
}

// GetPerson retrieves a person by ID
func (s *personService) GetPerson(ctx context.Context, id uint) (*models.Person, error) {
	return getPerson(s.db.WithContext(ctx), id)
}

// ListPersons returns everyone ordered by last and first name.
func (s *personService) ListPersons(ctx context.Context) ([]models.Person, error) {
	persons := []models.Person{}
	if err := s.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&persons).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return persons, nil
}

// UpdatePerson edits a person in place. Empty names and nil pointers keep
// the stored value; an empty photo clears it.
func (s *personService) UpdatePerson(ctx context.Context, id uint, firstName, lastName string, birthDate *time.Time, photo *string) (*models.Person, error) {
	db := s.db.WithContext(ctx)
	person, err := getPerson(db, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(firstName); v != "" {
		person.FirstName = v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		person.LastName = v
	}
	if birthDate != nil {
		if birthDate.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "birth date is required")
		}
		person.BirthDate = *birthDate
	}
	if photo != nil {
		cleaned, err := cleanPhoto(*photo)
		if err != nil {
			return nil, err
		}
		person.Photo = cleaned
	}

	if err := db.Save(person).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return person, nil
}

// DeletePerson removes a person together with every row and file they own.
func (s *personService) DeletePerson(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		person, err := getPerson(tx, id)
		if err != nil {
			return err
		}
		for _, model := range []any{&models.Expense{}, &models.Income{}, &models.MonthlyReport{}, &models.LedgerEvent{}} {
			if err := tx.Where("person_id = ?", id).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Delete(person).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.RemovePerson(id); err != nil {
			logger.Get().Errorw("Failed to remove person directory", "person_id", id, "error", err)
		}
	}
	return nil
}

// cleanPhoto accepts a bare file name inside the upload directory.
func cleanPhoto(photo string) (string, error) {
	photo = strings.TrimSpace(photo)
	if photo == "" {
		return "", nil
	}
	if filepath.Base(photo) != photo || photo == "." || photo == ".." {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "photo must be a file name")
	}
	return photo, nil
}
