package validator

import (
	"errors"
	"testing"
)

func TestV10ValidatorThroughInterface(t *testing.T) {
	v10, err := NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	// Use cases hold the interface, not the concrete type.
	var v Validator = v10

	type contactInput struct {
		RelayCode string `validate:"required,len=12,hexadecimal"`
		FromEmail string `validate:"required,email"`
		BodyText  string `validate:"required,max=20"`
	}

	ok := contactInput{
		RelayCode: "a1b2c3d4e5f6",
		FromEmail: "fan@example.com",
		BodyText:  "hello",
	}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("expected valid input to pass, got %v", err)
	}

	bad := contactInput{
		RelayCode: "short",
		FromEmail: "not-an-email",
		BodyText:  "this body is far too long for the rule",
	}
	err = v.Validate(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var fields V10ValidationError
	if !errors.As(err, &fields) {
		t.Fatalf("expected V10ValidationError, got %T", err)
	}
	for _, key := range []string{"relay_code", "from_email", "body_text"} {
		if _, found := fields[key]; !found {
			t.Fatalf("expected snake_case field %q in %v", key, fields)
		}
	}
}
