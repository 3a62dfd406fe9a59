package auth

import "testing"

func TestSessionTokenRoundTrip(t *testing.T) {
	auth := NewAuthenticator("test-secret")

	token, err := auth.GenerateSessionToken("session-42")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.SessionID != "session-42" {
		t.Errorf("SessionID = %q, want session-42", claims.SessionID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthenticator("secret-a").GenerateSessionToken("s1")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := NewAuthenticator("secret-b").ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with wrong secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := NewAuthenticator("s").ValidateToken("not.a.token"); err == nil {
		t.Error("Expected validation to fail for malformed token")
	}
}
