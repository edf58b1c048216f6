// Package formfill fills a payment test form from one dataset row.
package formfill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
)

// DefaultHolderName is typed into the cardholder field.
const DefaultHolderName = "Test User"

var (
	// ErrRowOutOfRange is returned when the row index is not in the dataset.
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrNoCardNumber is returned when the row carries no card number.
	ErrNoCardNumber = errors.New("no card number in the selected row")
)

var (
	cardNumberColumns = []string{"card number", "cardnumber", "card_number"}
	numberColumns     = []string{"number", "card number", "cardnumber", "card", "num"}
	expiryColumns     = []string{"expire", "expiration", "exp", "expdate", "exp_date"}
	cvvColumns        = []string{"cvv", "cvc", "cvv2"}
	zipColumns        = []string{"zip", "zipcode", "zip_code", "postal", "postalcode", "postal_code"}
)

// Field names in form order.
const (
	FieldCardNumber = "card number"
	FieldExpiry     = "expiry"
	FieldCVV        = "cvv"
	FieldHolder     = "cardholder"
	FieldZip        = "zip"
)

// Fields are the values typed into the form. Empty values are skipped.
type Fields struct {
	CardNumber string
	Expiry     string
	CVV        string
	Holder     string
	Zip        string
}

// Field is one named form value.
type Field struct {
	Name  string
	Value string
}

// Ordered returns the non-empty fields in the order the form expects them.
func (f Fields) Ordered() []Field {
	all := []Field{
		{FieldCardNumber, f.CardNumber},
		{FieldExpiry, f.Expiry},
		{FieldCVV, f.CVV},
		{FieldHolder, f.Holder},
		{FieldZip, f.Zip},
	}
	out := all[:0]
	for _, field := range all {
		if field.Value != "" {
			out = append(out, field)
		}
	}
	return out
}

// NumberColumn returns the fallback card number column, or "".
func NumberColumn(ds *model.Dataset) string {
	return model.FindColumn(ds, numberColumns...)
}

// CardColumn returns the column card numbers are read from, or "".
func CardColumn(ds *model.Dataset) string {
	if col := model.FindColumn(ds, cardNumberColumns...); col != "" {
		return col
	}
	return NumberColumn(ds)
}

// Resolve reads the form fields from row of ds. Cells holding a null marker
// are left empty.
func Resolve(ds *model.Dataset, row int, holder string) (Fields, error) {
	if row < 0 || row >= ds.Len() {
		return Fields{}, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if holder == "" {
		holder = DefaultHolderName
	}
	f := Fields{
		CardNumber: value(ds, row, cardNumberColumns),
		Expiry:     value(ds, row, expiryColumns),
		CVV:        value(ds, row, cvvColumns),
		Holder:     holder,
		Zip:        value(ds, row, zipColumns),
	}
	if f.CardNumber == "" {
		f.CardNumber = value(ds, row, numberColumns)
	}
	if f.CardNumber == "" {
		return Fields{}, ErrNoCardNumber
	}
	return f, nil
}

func value(ds *model.Dataset, row int, names []string) string {
	col := ds.Index(model.FindColumn(ds, names...))
	if col < 0 {
		return ""
	}
	cell := ds.Cell(row, col)
	if _, ok := basename.RawValue(cell); !ok {
		return ""
	}
	return strings.TrimSpace(cell)
}
