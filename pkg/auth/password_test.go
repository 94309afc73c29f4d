package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should use argon2id format, got %q", hash[:20])
	}

	if !VerifyPassword(password, hash) {
		t.Error("VerifyPassword should accept the correct password")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("VerifyPassword should reject a wrong password")
	}
	if VerifyPassword("", hash) {
		t.Error("VerifyPassword should reject an empty password")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=2$onlysalt",
		"$bcrypt$whatever",
	}
	for _, h := range malformed {
		if VerifyPassword("anything", h) {
			t.Errorf("VerifyPassword should reject malformed hash %q", h)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		policy   PasswordPolicy
		password string
		wantErr  bool
	}{
		{
			name:     "meets default minimum",
			policy:   PasswordPolicy{MinLength: 8},
			password: "12345678",
			wantErr:  false,
		},
		{
			name:     "too short",
			policy:   PasswordPolicy{MinLength: 8},
			password: "1234567",
			wantErr:  true,
		},
		{
			name:     "requires uppercase",
			policy:   PasswordPolicy{MinLength: 8, RequireUppercase: true},
			password: "lowercase only",
			wantErr:  true,
		},
		{
			name:     "uppercase satisfied",
			policy:   PasswordPolicy{MinLength: 8, RequireUppercase: true},
			password: "Uppercase here",
			wantErr:  false,
		},
		{
			name:     "requires number",
			policy:   PasswordPolicy{MinLength: 8, RequireNumber: true},
			password: "no numbers here",
			wantErr:  true,
		},
		{
			name:     "requires special",
			policy:   PasswordPolicy{MinLength: 8, RequireSpecial: true},
			password: "nospecial123",
			wantErr:  true,
		},
		{
			name:     "all requirements satisfied",
			policy:   PasswordPolicy{MinLength: 8, RequireUppercase: true, RequireLowercase: true, RequireNumber: true, RequireSpecial: true},
			password: "Str0ng!pass",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
