package service

import (
	"errors"
	"time"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/util"
	"surveyhub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// GateStore is the narrow persistence contract the access gate needs.
// CompleteOne must be atomic: with N free slots and more than N concurrent
// callers, exactly N succeed.
type GateStore interface {
	FindByCode(code string) (*model.Invitation, error)
	LogAccess(access *model.InvitationAccess) error
	HasCompleted(invitationID, userID, email string) (bool, error)
	CompleteOne(invitationID, userID, email string) error
}

// InvitationGate decides whether a respondent may enter a gated survey.
type InvitationGate struct {
	Store GateStore

	now func() time.Time
}

func NewInvitationGate(store GateStore) *InvitationGate {
	return &InvitationGate{Store: store, now: time.Now}
}

// check runs the denial checks in fixed order so the respondent always sees
// the most specific reason. Pure policy; no writes.
func (g *InvitationGate) check(inv *model.Invitation, userID, email string) error {
	if !inv.IsActive {
		return util.ErrInvitationExpired
	}
	if inv.IsExpired(g.now()) {
		return util.ErrInvitationExpired
	}
	if inv.IsExhausted() {
		return util.ErrInvitationExhausted
	}
	if !inv.CanAccess(userID, email) {
		return util.ErrNotTargeted
	}
	if inv.PreventDuplicates {
		done, err := g.Store.HasCompleted(inv.ID, userID, email)
		if err != nil {
			return err
		}
		if done {
			return util.ErrAlreadyCompleted
		}
	}
	return nil
}

// Authorize resolves the code, applies the access policy and appends the
// audit row. The audit row is written for denied attempts too.
func (g *InvitationGate) Authorize(code, userID, email, ipAddress string) (*model.Invitation, error) {
	inv, err := g.Store.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}

	denial := g.check(inv, userID, email)

	access := &model.InvitationAccess{
		InvitationID: inv.ID,
		UserID:       userID,
		Email:        email,
		IPAddress:    ipAddress,
		Allowed:      denial == nil,
		AccessedAt:   g.now(),
	}
	if err := g.Store.LogAccess(access); err != nil {
		return nil, err
	}

	if denial != nil {
		if reason, ok := util.InvitationDenialCode(denial); ok {
			monitoring.InvitationDenials.WithLabelValues(reason).Inc()
		}
		return nil, denial
	}
	return inv, nil
}

// RecordCompletion claims one response slot. Returns ErrInvitationExhausted
// when a concurrent submission took the last slot after Authorize passed.
func (g *InvitationGate) RecordCompletion(invitationID, userID, email string) error {
	return g.Store.CompleteOne(invitationID, userID, email)
}
