package validate_test

import (
	"testing"

	"marketfront/internal/validate"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"+998901234567", true},
		{"+998331112233", true},
		{"998901234567", false},   // missing plus
		{"+99890123456", false},   // eight digits
		{"+9989012345678", false}, // ten digits
		{"+7 900 123 45 67", false},
		{"", false},
		{"+998 90 123 45 67", false}, // spaces must be stripped before validating
	}
	for _, tt := range tests {
		err := validate.Phone(tt.phone)
		if tt.ok && err != nil {
			t.Errorf("Phone(%q) = %v, want nil", tt.phone, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("Phone(%q) = nil, want error", tt.phone)
				continue
			}
			if err.MessageKey != "validation.phone" {
				t.Errorf("Phone(%q) key = %q", tt.phone, err.MessageKey)
			}
		}
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"secret12", true},
		{"a1b2c3d4", true},
		{"short1", false},      // too short
		{"onlyletters", false}, // no digit
		{"1234567890", false},  // no letter
		{"", false},
	}
	for _, tt := range tests {
		err := validate.Password(tt.password)
		if tt.ok && err != nil {
			t.Errorf("Password(%q) = %v, want nil", tt.password, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("Password(%q) = nil, want error", tt.password)
		}
	}
}

func TestPasswordMatch(t *testing.T) {
	if err := validate.PasswordMatch("secret12", "secret12"); err != nil {
		t.Errorf("matching passwords rejected: %v", err)
	}
	err := validate.PasswordMatch("secret12", "secret13")
	if err == nil {
		t.Fatal("mismatch accepted")
	}
	if err.Field != "password_confirm" {
		t.Errorf("field = %q, want password_confirm", err.Field)
	}
}
