package models

import "time"

// Person owns a ledger. Deleting a person removes every dependent record.
type Person struct {
	Base
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Photo     string    `gorm:"size:255" json:"photo,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`

	Incomes  []Income        `gorm:"foreignKey:PersonID" json:"-"`
	Expenses []Expense       `gorm:"foreignKey:PersonID" json:"-"`
	Reports  []MonthlyReport `gorm:"foreignKey:PersonID" json:"-"`
}

// FullName joins first and last name.
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// TableName keeps the English plural instead of gorm's "people".
func (Person) TableName() string {
	return "persons"
}
