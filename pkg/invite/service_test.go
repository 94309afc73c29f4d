package invite

import (
	"testing"
	"time"
)

func TestSignupURL(t *testing.T) {
	svc := NewService(Config{BaseURL: "https://app.example.com"}, nil, nil, nil, nil)

	got := svc.SignupURL("Abc123Xyz456")
	want := "https://app.example.com/signup/Abc123Xyz456"
	if got != want {
		t.Errorf("SignupURL = %q, want %q", got, want)
	}
}

func TestNewService_DefaultTTL(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil, nil)
	if svc.config.TTL != DefaultTTL {
		t.Errorf("default TTL = %v, want %v", svc.config.TTL, DefaultTTL)
	}

	custom := NewService(Config{TTL: 48 * time.Hour}, nil, nil, nil, nil)
	if custom.config.TTL != 48*time.Hour {
		t.Errorf("custom TTL = %v, want %v", custom.config.TTL, 48*time.Hour)
	}
}
