package schema

import (
	"encoding/json"
	"testing"
)

func TestValidateCandidateUpload(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"resume_text": "Analytical engine programmer.",
		"requested_role": "recruiter"
	}`)

	input, err := ValidateCandidateUpload(payload)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if input.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected name: %q", input.FullName)
	}
	if input.RequestedRole != "recruiter" {
		t.Fatalf("unexpected requested role: %q", input.RequestedRole)
	}
}

func TestValidateCandidateUploadRejections(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing resume":   `{"name": "Ada", "email": "ada@example.com"}`,
		"blank name":       `{"name": "  ", "email": "ada@example.com", "resume_text": "x"}`,
		"bad email":        `{"name": "Ada", "email": "not-an-email", "resume_text": "x"}`,
		"unknown field":    `{"name": "Ada", "email": "ada@example.com", "resume_text": "x", "role": "admin"}`,
		"trailing content": `{"name": "Ada", "email": "ada@example.com", "resume_text": "x"} garbage`,
		"empty":            ``,
	}

	for label, body := range cases {
		if _, err := ValidateCandidateUpload(json.RawMessage(body)); err == nil {
			t.Fatalf("%s: expected validation error", label)
		}
	}
}
