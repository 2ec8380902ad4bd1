package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberService_OneProfilePerUser(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewMemberService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")

	_, err := svc.Create(MemberInput{Nickname: "ally", Country: "KR"}, alice.ID)
	require.NoError(t, err)

	_, err = svc.Create(MemberInput{Nickname: "ally2"}, alice.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemberService_Update_OwnerOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewMemberService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")
	profile, err := svc.Create(MemberInput{Nickname: "ally"}, alice.ID)
	require.NoError(t, err)

	nick := "mallory"
	_, err = svc.Update(profile.ID, MemberUpdate{Nickname: &nick}, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(profile.ID, MemberUpdate{Nickname: &nick}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "mallory", updated.Nickname)
}

func TestMemberService_Remove(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewMemberService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")
	profile, err := svc.Create(MemberInput{Nickname: "ally"}, alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(profile.ID, bob.ID), ErrForbidden)
	require.NoError(t, svc.Remove(profile.ID, alice.ID))
	_, err = svc.GetOne(profile.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSemesterService_CRUD(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSemesterService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")

	row, err := svc.Create(SemesterInput{Country: "Japan", University: "Waseda", Term: "2024-1"}, alice.ID)
	require.NoError(t, err)

	rows, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	country := "France"
	_, err = svc.Update(row.ID, SemesterUpdate{Country: &country}, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(row.ID, SemesterUpdate{Country: &country}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "France", updated.Country)

	assert.ErrorIs(t, svc.Remove(row.ID, bob.ID), ErrForbidden)
	require.NoError(t, svc.Remove(row.ID, alice.ID))
}
