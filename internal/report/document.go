// Package report builds the monthly report document and renders it as PDF,
// DOCX or XLSX. Every renderer prints the same Document, so the formats only
// differ in layout.
package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"troskovi/internal/money"
)

// DateLayout is used for the report generation date.
const DateLayout = "02.01.2006"

// Labels printed in every format.
const (
	TitleText      = "Monthly Expense Report"
	SummaryTitle   = "SUMMARY"
	IncomeTitle    = "INCOME"
	ExpensesTitle  = "EXPENSES"
	TotalLabel     = "TOTAL"
	totalIncomeLbl = "Total income"
	totalExpLbl    = "Total expenses"
	balanceLbl     = "Balance"
)

// IncomeLine is one income row of the month.
type IncomeLine struct {
	Name   string
	Amount decimal.Decimal
}

// ExpenseLine is one expense row of the month.
type ExpenseLine struct {
	Category string
	Name     string
	Amount   decimal.Decimal
}

// Input is everything a report needs. Lines are printed in the given order.
type Input struct {
	FirstName   string
	LastName    string
	Month       string
	PhotoPath   string
	GeneratedAt time.Time
	Incomes     []IncomeLine
	Expenses    []ExpenseLine
}

// Table is a titled grid with a header, body rows and an optional total row.
type Table struct {
	Title       string
	Header      []string
	Rows        [][]string
	Total       []string
	HeaderColor string
	BodyColor   string
	TotalColor  string
	Widths      []float64
	// NumericCols counts the trailing columns that hold figures.
	NumericCols int
}

// Document is the rendered content of one (person, month).
type Document struct {
	FirstName string
	LastName  string
	Month     string
	PhotoPath string

	Title string
	Info  []string

	Summary  *Table
	Income   *Table
	Expenses *Table
}

// Build lays out the report for in.
func Build(in Input) *Document {
	totalIncome := decimal.Zero
	for _, l := range in.Incomes {
		totalIncome = totalIncome.Add(l.Amount)
	}
	totalExpense := decimal.Zero
	for _, l := range in.Expenses {
		totalExpense = totalExpense.Add(l.Amount)
	}

	doc := &Document{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Month:     in.Month,
		PhotoPath: in.PhotoPath,
		Title:     TitleText,
		Info: []string{
			fmt.Sprintf("Person: %s %s", in.FirstName, in.LastName),
			"Month: " + in.Month,
			"Report date: " + in.GeneratedAt.Format(DateLayout),
		},
		Summary: &Table{
			Title:  SummaryTitle,
			Header: []string{"Item", "Amount"},
			Rows: [][]string{
				{totalIncomeLbl, money.FormatAmount(totalIncome)},
				{totalExpLbl, money.FormatAmount(totalExpense)},
				{balanceLbl, money.FormatAmount(totalIncome.Sub(totalExpense))},
			},
			HeaderColor: "#3498db",
			BodyColor:   "#f5f5dc",
			Widths:      []float64{110, 60},
			NumericCols: 1,
		},
	}

	if len(in.Incomes) > 0 {
		t := &Table{
			Title:       IncomeTitle,
			Header:      []string{"Name", "Amount"},
			Total:       []string{TotalLabel, money.FormatAmount(totalIncome)},
			HeaderColor: "#27ae60",
			TotalColor:  "#d5f4e6",
			Widths:      []float64{110, 60},
			NumericCols: 1,
		}
		for _, l := range in.Incomes {
			t.Rows = append(t.Rows, []string{l.Name, money.FormatAmount(l.Amount)})
		}
		doc.Income = t
	}

	if len(in.Expenses) > 0 {
		t := &Table{
			Title:       ExpensesTitle,
			Header:      []string{"Category", "Name", "Amount", "%"},
			Total:       []string{"", TotalLabel, money.FormatAmount(totalExpense), money.FormatPercent(100)},
			HeaderColor: "#e74c3c",
			TotalColor:  "#fadbd8",
			Widths:      []float64{45, 65, 40, 30},
			NumericCols: 2,
		}
		for _, l := range in.Expenses {
			t.Rows = append(t.Rows, []string{
				l.Category,
				l.Name,
				money.FormatAmount(l.Amount),
				money.FormatPercent(money.Percentage(l.Amount, totalExpense)),
			})
		}
		doc.Expenses = t
	}

	return doc
}

// Tables returns the present tables in print order.
func (d *Document) Tables() []*Table {
	tables := []*Table{d.Summary}
	if d.Income != nil {
		tables = append(tables, d.Income)
	}
	if d.Expenses != nil {
		tables = append(tables, d.Expenses)
	}
	return tables
}

// Texts returns every non-empty text fragment in print order.
func (d *Document) Texts() []string {
	var out []string
	add := func(cells ...string) {
		for _, c := range cells {
			if c != "" {
				out = append(out, c)
			}
		}
	}
	add(d.Title)
	add(d.Info...)
	for _, t := range d.Tables() {
		add(t.Title)
		add(t.Header...)
		for _, row := range t.Rows {
			add(row...)
		}
		add(t.Total...)
	}
	return out
}

// FileName is Izvestaj_<first>_<last>_<month>.<ext>. Name parts keep letters,
// digits and hyphens; everything else, path separators and dots included,
// becomes an underscore, so the result is always a single path element.
func FileName(firstName, lastName, month string, f Format) string {
	return fmt.Sprintf("Izvestaj_%s_%s_%s.%s",
		fileNamePart(firstName), fileNamePart(lastName), fileNamePart(month), f.Extension())
}

func fileNamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, s)
}
