package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("hash must not equal the plaintext password")
	}

	if err := CheckPassword("secret123", hash); err != nil {
		t.Fatalf("expected matching password to verify: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 16 {
		t.Fatalf("expected length 16, got %d", len(s))
	}

	other, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == other {
		t.Fatalf("expected two random strings to differ")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"owner", "admin", "teacher", "student"} {
		if !IsValidRole(role) {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "superadmin", "Owner"} {
		if IsValidRole(role) {
			t.Fatalf("expected %q to be invalid", role)
		}
	}
}

func TestIsValidUserStatus(t *testing.T) {
	for _, status := range []string{"active", "inactive", "suspended"} {
		if !IsValidUserStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if IsValidUserStatus("banned") {
		t.Fatalf("expected \"banned\" to be invalid")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected sanitized value: %q", got)
	}
}
