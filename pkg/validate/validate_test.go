package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/vastra/pkg/validate"
)

type addToCartInput struct {
	UserID uint   `json:"userId" validate:"required"`
	ItemID uint   `json:"itemId" validate:"required"`
	Qty    int    `json:"qty"    validate:"required,integer,gte=1"`
	Note   string `json:"note"   validate:"nullable,max=10"`
}

func TestStructPasses(t *testing.T) {
	errs := validate.Struct(addToCartInput{UserID: 1, ItemID: 2, Qty: 3})
	assert.False(t, validate.HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := validate.Struct(addToCartInput{UserID: 1, Qty: 1})
	assert.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "itemId")
}

func TestStructZeroQtyFailsRequired(t *testing.T) {
	errs := validate.Struct(addToCartInput{UserID: 1, ItemID: 2, Qty: 0})
	assert.Contains(t, errs, "qty")
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	// Empty note is fine, an oversized one is not.
	errs := validate.Struct(addToCartInput{UserID: 1, ItemID: 2, Qty: 1})
	assert.NotContains(t, errs, "note")

	errs = validate.Struct(addToCartInput{UserID: 1, ItemID: 2, Qty: 1, Note: "way too long for ten"})
	assert.Contains(t, errs, "note")
}

type loginInput struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"nullable,in=user,admin"`
}

func TestStructEmailAndIn(t *testing.T) {
	errs := validate.Struct(loginInput{Email: "not-an-email"})
	assert.Contains(t, errs, "email")

	errs = validate.Struct(loginInput{Email: "a@b.co", Role: "root"})
	assert.Contains(t, errs, "role")

	errs = validate.Struct(loginInput{Email: "a@b.co", Role: "admin"})
	assert.False(t, validate.HasErrors(errs))
}

func TestStructPointerAndNonStruct(t *testing.T) {
	errs := validate.Struct(&addToCartInput{UserID: 1, ItemID: 1, Qty: 1})
	assert.False(t, validate.HasErrors(errs))

	assert.False(t, validate.HasErrors(validate.Struct(42)))
}
