package auth

import "testing"

func TestValidatePINFormat(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		want bool
	}{
		{name: "four digits", pin: "1234", want: true},
		{name: "five digits", pin: "12345", want: true},
		{name: "six digits", pin: "123456", want: true},
		{name: "leading zeros", pin: "0042", want: true},
		{name: "three digits", pin: "123", want: false},
		{name: "seven digits", pin: "1234567", want: false},
		{name: "letters", pin: "12ab", want: false},
		{name: "digits with space", pin: "12 34", want: false},
		{name: "empty", pin: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePINFormat(tt.pin); got != tt.want {
				t.Errorf("ValidatePINFormat(%q) = %v, want %v", tt.pin, got, tt.want)
			}
		})
	}
}

func TestPINHasherHashAndVerify(t *testing.T) {
	// Low cost keeps the test fast; the hashing contract is identical.
	hasher := &PINHasher{cost: 4}

	hash, err := hasher.Hash("1234")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "1234" {
		t.Fatal("Hash() returned the plaintext PIN")
	}

	if !hasher.Verify("1234", hash) {
		t.Error("Verify() = false for correct PIN")
	}
	if hasher.Verify("4321", hash) {
		t.Error("Verify() = true for wrong PIN")
	}
	if hasher.Verify("1234", "not-a-hash") {
		t.Error("Verify() = true for garbage hash")
	}
}

func TestPINHasherRejectsBadFormat(t *testing.T) {
	hasher := &PINHasher{cost: 4}
	if _, err := hasher.Hash("abc"); err != ErrInvalidPINFormat {
		t.Errorf("Hash(\"abc\") error = %v, want ErrInvalidPINFormat", err)
	}
}

func TestGeneratePIN(t *testing.T) {
	for _, length := range []int{4, 5, 6} {
		pin, err := GeneratePIN(length)
		if err != nil {
			t.Fatalf("GeneratePIN(%d) error = %v", length, err)
		}
		if len(pin) != length {
			t.Errorf("GeneratePIN(%d) length = %d", length, len(pin))
		}
		if !ValidatePINFormat(pin) {
			t.Errorf("GeneratePIN(%d) = %q, not a valid PIN", length, pin)
		}
	}

	if _, err := GeneratePIN(3); err == nil {
		t.Error("GeneratePIN(3) error = nil, want error")
	}
	if _, err := GeneratePIN(7); err == nil {
		t.Error("GeneratePIN(7) error = nil, want error")
	}
}
