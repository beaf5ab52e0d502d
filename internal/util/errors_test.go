package util

import (
	"fmt"
	"testing"
)

func TestInvitationDenialCode(t *testing.T) {
	tests := []struct {
		err      error
		wantCode string
		wantOK   bool
	}{
		{ErrInvitationExpired, "Expired", true},
		{ErrInvitationExhausted, "Exhausted", true},
		{ErrNotTargeted, "NotTargeted", true},
		{ErrAlreadyCompleted, "AlreadyCompleted", true},
		// Wrapped errors still resolve to their code.
		{fmt.Errorf("gate: %w", ErrInvitationExhausted), "Exhausted", true},
		{ErrInvitationNotFound, "", false},
		{ErrSurveyNotOpen, "", false},
	}

	for _, tt := range tests {
		code, ok := InvitationDenialCode(tt.err)
		if code != tt.wantCode || ok != tt.wantOK {
			t.Errorf("InvitationDenialCode(%v) = (%q, %v), want (%q, %v)",
				tt.err, code, ok, tt.wantCode, tt.wantOK)
		}
	}
}
