package mpesa

import "testing"

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{phone: "254712345678", valid: true},
		{phone: "254100000000", valid: true},
		{phone: "0712345678", valid: false},   // local format
		{phone: "25471234567", valid: false},  // too short
		{phone: "2547123456789", valid: false}, // too long
		{phone: "255712345678", valid: false}, // wrong country code
		{phone: "25471234567a", valid: false}, // non-digit
		{phone: "+25471234567", valid: false}, // plus prefix
		{phone: "", valid: false},
	}

	for _, tt := range tests {
		err := ValidatePhoneNumber(tt.phone)
		if tt.valid && err != nil {
			t.Fatalf("ValidatePhoneNumber(%q) = %v, want nil", tt.phone, err)
		}
		if !tt.valid && err == nil {
			t.Fatalf("ValidatePhoneNumber(%q) = nil, want error", tt.phone)
		}
	}
}
