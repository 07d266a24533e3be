package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

type priced struct {
	Name  string          `validate:"required"`
	Price decimal.Decimal `validate:"gte=0"`
	Qty   int             `validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	ok := priced{Name: "Soap", Price: decimal.NewFromInt(0), Qty: 1}
	if errs := ValidateStruct(&ok); len(errs) != 0 {
		t.Fatalf("expected no errors, got %d", len(errs))
	}

	bad := priced{Price: decimal.NewFromInt(-1)}
	errs := ValidateStruct(&bad)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	if tags["priced.Price"] != "gte" || tags["priced.Name"] != "required" || tags["priced.Qty"] != "gt" {
		t.Fatalf("unexpected failures: %v", tags)
	}
}
