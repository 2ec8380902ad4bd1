package service

import (
	"testing"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMService_CreateAndList(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewDMService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")
	carol := seedUser(t, gdb, "carol", "Carol")

	msg, err := svc.Create(DirectMessageInput{ReceiverID: bob.ID, Title: "hi", Content: "hello bob"}, alice.ID)
	require.NoError(t, err)
	assert.False(t, msg.IsRead)

	// Both participants see it; a third user does not.
	forAlice, err := svc.List(alice.ID)
	require.NoError(t, err)
	assert.Len(t, forAlice, 1)

	forBob, err := svc.List(bob.ID)
	require.NoError(t, err)
	assert.Len(t, forBob, 1)

	forCarol, err := svc.List(carol.ID)
	require.NoError(t, err)
	assert.Empty(t, forCarol)
}

func TestDMService_Create_UnknownReceiver(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewDMService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")

	_, err := svc.Create(DirectMessageInput{ReceiverID: 999, Title: "hi", Content: "x"}, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDMService_GetOne_ParticipantsOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewDMService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")
	carol := seedUser(t, gdb, "carol", "Carol")
	msg, err := svc.Create(DirectMessageInput{ReceiverID: bob.ID, Title: "hi", Content: "x"}, alice.ID)
	require.NoError(t, err)

	_, err = svc.GetOne(msg.ID, carol.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOne(msg.ID, bob.ID)
	assert.NoError(t, err)
}

func TestDMService_Update_MarksRead(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewDMService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")
	carol := seedUser(t, gdb, "carol", "Carol")
	msg, err := svc.Create(DirectMessageInput{ReceiverID: bob.ID, Title: "hi", Content: "x"}, alice.ID)
	require.NoError(t, err)

	read := true
	_, err = svc.Update(msg.ID, DirectMessageUpdate{IsRead: &read}, carol.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(msg.ID, DirectMessageUpdate{IsRead: &read}, bob.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsRead)

	var stored models.DirectMessage
	require.NoError(t, gdb.First(&stored, msg.ID).Error)
	assert.True(t, stored.IsRead)
}

func TestDMService_Remove_ParticipantsOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewDMService(gdb)
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")
	carol := seedUser(t, gdb, "carol", "Carol")
	msg, err := svc.Create(DirectMessageInput{ReceiverID: bob.ID, Title: "hi", Content: "x"}, alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(msg.ID, carol.ID), ErrForbidden)
	assert.NoError(t, svc.Remove(msg.ID, bob.ID))
	assert.ErrorIs(t, svc.Remove(msg.ID, bob.ID), ErrNotFound)
}
