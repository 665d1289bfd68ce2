package services

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		want    string
		wantErr bool
	}{
		{name: "plain ten digits", phone: "9876543210", want: "9876543210"},
		{name: "plus country code", phone: "+919876543210", want: "9876543210"},
		{name: "bare country code", phone: "919876543210", want: "9876543210"},
		{name: "leading zero", phone: "09876543210", want: "9876543210"},
		{name: "spaces trimmed", phone: " 98765 43210 ", want: "9876543210"},
		{name: "too short", phone: "987654321", wantErr: true},
		{name: "bad leading digit", phone: "1234567890", wantErr: true},
		{name: "letters", phone: "98765abcde", wantErr: true},
		{name: "empty", phone: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.phone)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizePhone(%q) = %q, want error", tt.phone, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) error: %v", tt.phone, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP error: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("generateOTP() = %q, want 6 digits", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("generateOTP() = %q, contains non-digit", otp)
			}
		}
	}
}
