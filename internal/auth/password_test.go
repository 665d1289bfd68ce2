package auth

import "testing"

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("devotee1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "devotee1" {
		t.Fatal("hash equals the plaintext")
	}
	if !VerifyPassword(hash, "devotee1") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "devotee2") {
		t.Error("wrong password accepted")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "letters and digit", password: "abc123"},
		{name: "too short", password: "a1", wantErr: true},
		{name: "letters only", password: "abcdef", wantErr: true},
		{name: "digits only", password: "123456", wantErr: true},
		{name: "long mixed", password: "Sankalp2026", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePasswordStrength(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
