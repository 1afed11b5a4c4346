package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	salt, hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if len(salt) != 32 {
		t.Errorf("Expected 32 hex chars of salt, got %d", len(salt))
	}
	if salt == hash {
		t.Error("Salt and hash must differ")
	}

	if !VerifyPassword("correct horse battery staple", salt, hash) {
		t.Error("Expected correct password to verify")
	}
	if VerifyPassword("wrong password", salt, hash) {
		t.Error("Expected wrong password to fail")
	}
	if VerifyPassword("correct horse battery staple", salt, "not-hex") {
		t.Error("Expected malformed stored hash to fail")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	salt1, hash1, _ := HashPassword("same password")
	salt2, hash2, _ := HashPassword("same password")
	if salt1 == salt2 {
		t.Error("Expected different salts per call")
	}
	if hash1 == hash2 {
		t.Error("Expected different hashes with different salts")
	}
}

func TestRoomTokenCarriesVideoGrants(t *testing.T) {
	issuer := NewTokenIssuer("key1", "secret1")

	token, err := issuer.RoomToken("room-5", "alice")
	if err != nil {
		t.Fatalf("RoomToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a signed token")
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("key1", "secret1")

	token, err := issuer.UserToken("alice@example.com")
	if err != nil {
		t.Fatalf("UserToken failed: %v", err)
	}

	claims, err := issuer.ValidateUserToken(token)
	if err != nil {
		t.Fatalf("ValidateUserToken failed: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Expected email claim, got %q", claims.Email)
	}
	if claims.Issuer != "key1" {
		t.Errorf("Expected issuer key1, got %q", claims.Issuer)
	}
}

func TestValidateUserTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("key1", "secret1")
	other := NewTokenIssuer("key1", "different-secret")

	token, err := issuer.UserToken("alice@example.com")
	if err != nil {
		t.Fatalf("UserToken failed: %v", err)
	}

	if _, err := other.ValidateUserToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}
