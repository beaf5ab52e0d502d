package model

import (
	"testing"
	"time"
)

func TestInvitationIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"never expires", nil, false},
		{"in the future", &future, false},
		{"in the past", &past, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{ExpiresAt: tt.expiresAt}
			if got := inv.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvitationIsExhausted(t *testing.T) {
	three := 3

	tests := []struct {
		name    string
		max     *int
		current int
		want    bool
	}{
		{"unlimited", nil, 999, false},
		{"below cap", &three, 2, false},
		{"at cap", &three, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{MaxResponses: tt.max, CurrentResponses: tt.current}
			if got := inv.IsExhausted(); got != tt.want {
				t.Errorf("IsExhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvitationCanAccess(t *testing.T) {
	tests := []struct {
		name   string
		inv    Invitation
		userID string
		email  string
		want   bool
	}{
		{"open admits anyone", Invitation{DistributionMode: DistributionOpen}, "", "x@y.com", true},
		{"link admits anyone", Invitation{DistributionMode: DistributionLink}, "", "", true},
		{
			"targeted email match",
			Invitation{DistributionMode: DistributionTargeted, TargetEmails: StringList{"a@b.com"}},
			"", "a@b.com", true,
		},
		{
			"targeted user id match",
			Invitation{DistributionMode: DistributionTargeted, TargetUserIDs: StringList{"u1"}},
			"u1", "", true,
		},
		{
			"targeted no match",
			Invitation{DistributionMode: DistributionTargeted, TargetEmails: StringList{"a@b.com"}},
			"", "z@b.com", false,
		},
		{
			"targeted empty identity",
			Invitation{DistributionMode: DistributionTargeted, TargetEmails: StringList{"a@b.com"}},
			"", "", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.CanAccess(tt.userID, tt.email); got != tt.want {
				t.Errorf("CanAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewInvitationCode(t *testing.T) {
	a := NewInvitationCode()
	b := NewInvitationCode()
	if len(a) != 32 {
		t.Errorf("code length = %d, want 32", len(a))
	}
	if a == b {
		t.Error("two codes should not collide")
	}
}

func TestBankFilterMatches(t *testing.T) {
	q := &Question{
		Tags:       StringList{"math", "algebra"},
		Difficulty: DifficultyHard,
		Type:       MultipleChoice,
	}

	tests := []struct {
		name   string
		filter *BankFilter
		want   bool
	}{
		{"nil filter matches all", nil, true},
		{"empty filter matches all", &BankFilter{}, true},
		{"tag OR one match", &BankFilter{Tags: []string{"geometry", "algebra"}}, true},
		{"tag OR no match", &BankFilter{Tags: []string{"geometry"}}, false},
		{"difficulty exact", &BankFilter{Difficulty: DifficultyHard}, true},
		{"difficulty mismatch", &BankFilter{Difficulty: DifficultyEasy}, false},
		{"type membership", &BankFilter{QuestionTypes: []QuestionType{SingleChoice, MultipleChoice}}, true},
		{"type mismatch", &BankFilter{QuestionTypes: []QuestionType{ShortText}}, false},
		{
			"all together",
			&BankFilter{Tags: []string{"math"}, Difficulty: DifficultyHard, QuestionTypes: []QuestionType{MultipleChoice}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(q); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
