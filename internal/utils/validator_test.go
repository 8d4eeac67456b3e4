// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordFixture struct {
	Password string `validate:"strong_password"`
}

type displayNameFixture struct {
	Name string `validate:"display_name"`
}

type listingFixture struct {
	Title       string   `validate:"required,min=5,max=100"`
	Description string   `validate:"required,min=20,max=1000"`
	Delivery    string   `validate:"required,oneof=instant live"`
	Tags        []string `validate:"required,min=1,max=5"`
}

func TestStrongPasswordValidator(t *testing.T) {
	assert.NoError(t, ValidateStruct(&passwordFixture{Password: "Str0ng!pass"}))
	assert.NoError(t, ValidateStruct(&passwordFixture{Password: "short1!A"})) // exactly 8 chars

	weak := []string{
		"alllowercase1!",
		"ALLUPPERCASE1!",
		"NoNumbers!!",
		"NoSpecials11A",
		"Ab1!",
	}
	for _, password := range weak {
		assert.Error(t, ValidateStruct(&passwordFixture{Password: password}), password)
	}
}

func TestDisplayNameValidator(t *testing.T) {
	assert.NoError(t, ValidateStruct(&displayNameFixture{Name: "Jo"}))
	assert.NoError(t, ValidateStruct(&displayNameFixture{Name: "A Perfectly Fine Name"}))

	assert.Error(t, ValidateStruct(&displayNameFixture{Name: "X"}))
	assert.Error(t, ValidateStruct(&displayNameFixture{Name: "   "}))
}

func TestListingValidationBounds(t *testing.T) {
	valid := listingFixture{
		Title:       "Intro to Go concurrency",
		Description: "One hour covering goroutines, channels and select.",
		Delivery:    "live",
		Tags:        []string{"go", "concurrency"},
	}
	assert.NoError(t, ValidateStruct(&valid))

	short := valid
	short.Title = "Go"
	assert.Error(t, ValidateStruct(&short))

	thin := valid
	thin.Description = "too short"
	assert.Error(t, ValidateStruct(&thin))

	badDelivery := valid
	badDelivery.Delivery = "mail"
	assert.Error(t, ValidateStruct(&badDelivery))

	noTags := valid
	noTags.Tags = nil
	assert.Error(t, ValidateStruct(&noTags))

	tooManyTags := valid
	tooManyTags.Tags = []string{"a1", "b2", "c3", "d4", "e5", "f6"}
	assert.Error(t, ValidateStruct(&tooManyTags))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&listingFixture{Delivery: "mail"})
	assert.Error(t, err)

	details := GetValidationErrors(err)
	assert.NotEmpty(t, details)

	fields := make(map[string]string)
	for _, d := range details {
		fields[d.Field] = d.Tag
	}
	assert.Equal(t, "required", fields["title"])
	assert.Equal(t, "oneof", fields["delivery"])
}
