// Package domain contains core concepts of the chat system.
// This file defines the Group aggregate and its membership invariants:
// admins are always members, pending requests never overlap members, and
// a non-empty group always has at least one admin.
package domain

import (
	"slices"
	"time"

	"chat-hub/errors"
)

// LastAdminRule is the policy applied when a removal empties the admin set
// while members remain.
type LastAdminRule string

const (
	// RulePromote promotes the remaining member with the earliest join
	// order, ties broken by lowest id.
	RulePromote LastAdminRule = "promote"
	// RuleDelete tears the group down as if deleted by the system.
	RuleDelete LastAdminRule = "delete"
)

// Group is mutated only through the methods below so the invariants hold
// after every transition. Members preserves join order, which drives the
// promotion tie-break.
type Group struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Rule      LastAdminRule `json:"rule"`
	Members   []string      `json:"members"`
	Admins    []string      `json:"admins"`
	Pending   []string      `json:"pending"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewGroup creates a group with the creator forced into both admins and
// members, whatever the caller supplied. Initial members join at creation
// time, so their relative join order is fixed by sorting on id.
func NewGroup(id, name, creatorID string, initialMembers []string, rule LastAdminRule) (*Group, error) {
	if name == "" {
		return nil, errors.ErrValidation
	}
	if rule != RulePromote && rule != RuleDelete {
		return nil, errors.ErrValidation
	}

	members := []string{creatorID}
	extra := slices.Clone(initialMembers)
	slices.Sort(extra)
	for _, id := range slices.Compact(extra) {
		if id != creatorID && id != "" {
			members = append(members, id)
		}
	}

	return &Group{
		ID:        id,
		Name:      name,
		Rule:      rule,
		Members:   members,
		Admins:    []string{creatorID},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (g *Group) IsMember(userID string) bool { return slices.Contains(g.Members, userID) }
func (g *Group) IsAdmin(userID string) bool  { return slices.Contains(g.Admins, userID) }
func (g *Group) IsPending(userID string) bool {
	return slices.Contains(g.Pending, userID)
}

// RequestJoin records a join request. Requesting twice is a no-op;
// requesting while already a member is a conflict.
func (g *Group) RequestJoin(userID string) error {
	if g.IsMember(userID) {
		return errors.ErrAlreadyMember
	}
	if g.IsPending(userID) {
		return nil
	}
	g.Pending = append(g.Pending, userID)
	return nil
}

// Approve moves a pending request into the member set. Join order is the
// approval order.
func (g *Group) Approve(userID string) error {
	if !g.IsPending(userID) {
		return errors.ErrNotPending
	}
	g.Pending = remove(g.Pending, userID)
	g.Members = append(g.Members, userID)
	return nil
}

// Reject drops a pending request without any side effect on membership.
func (g *Group) Reject(userID string) error {
	if !g.IsPending(userID) {
		return errors.ErrNotPending
	}
	g.Pending = remove(g.Pending, userID)
	return nil
}

// RemoveMember takes a user out of members and admins, then applies the
// last-admin rule if the admin set was emptied while members remain.
// It reports whether the group must be torn down as a result.
func (g *Group) RemoveMember(userID string) (deleted bool, err error) {
	if !g.IsMember(userID) {
		return false, errors.ErrNotAMember
	}
	g.Members = remove(g.Members, userID)
	g.Admins = remove(g.Admins, userID)

	if len(g.Members) == 0 {
		return true, nil
	}
	if len(g.Admins) > 0 {
		return false, nil
	}

	switch g.Rule {
	case RuleDelete:
		return true, nil
	default:
		g.Admins = append(g.Admins, g.nextAdmin())
		return false, nil
	}
}

// nextAdmin picks the member with the earliest join order. Members joined
// in the same batch were sorted by id at insertion, so the slice order
// already encodes the tie-break.
func (g *Group) nextAdmin() string {
	return g.Members[0]
}

// CheckInvariants verifies the structural rules that must hold at rest.
func (g *Group) CheckInvariants() error {
	for _, admin := range g.Admins {
		if !g.IsMember(admin) {
			return errors.ErrInvalidOperation
		}
	}
	for _, pending := range g.Pending {
		if g.IsMember(pending) {
			return errors.ErrInvalidOperation
		}
	}
	if len(g.Members) > 0 && len(g.Admins) == 0 {
		return errors.ErrInvalidOperation
	}
	return nil
}

// Clone returns a deep copy so services can mutate tentatively and persist
// only invariant-preserving transitions.
func (g *Group) Clone() *Group {
	dup := *g
	dup.Members = slices.Clone(g.Members)
	dup.Admins = slices.Clone(g.Admins)
	dup.Pending = slices.Clone(g.Pending)
	return &dup
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}
