package services

import (
	"strings"
	"testing"
)

func TestVerificationBodyContainsCodeAndName(t *testing.T) {
	body, err := verificationBody("Aisyah", "482913")
	if err != nil {
		t.Fatalf("verificationBody returned error: %v", err)
	}

	if !strings.Contains(body, "482913") {
		t.Error("body does not contain the OTP code")
	}
	if !strings.Contains(body, "Aisyah") {
		t.Error("body does not contain the recipient name")
	}
}

func TestVerificationBodyEscapesName(t *testing.T) {
	body, err := verificationBody("<script>alert(1)</script>", "123456")
	if err != nil {
		t.Fatalf("verificationBody returned error: %v", err)
	}

	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("recipient name was not HTML-escaped")
	}
}
