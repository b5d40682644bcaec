package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInquiry() *models.Inquiry {
	return &models.Inquiry{
		PropertyID: "p1",
		OwnerID:    "owner1",
		TenantID:   "tenant1",
		Status:     models.InquiryPending,
		Replies:    []models.InquiryReply{},
	}
}

var (
	tenantIdentity = access.Identity{ID: "tenant1", Name: "Tina", Role: models.RoleTenant}
	ownerIdentity  = access.Identity{ID: "owner1", Name: "Omar", Role: models.RoleOwner}
)

func TestIsSink(t *testing.T) {
	assert.False(t, IsSink(models.InquiryPending))
	assert.False(t, IsSink(models.InquiryReplied))
	assert.True(t, IsSink(models.InquiryInterested))
	assert.True(t, IsSink(models.InquiryNotInterested))
	assert.True(t, IsSink(models.InquiryClosed))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []models.InquiryStatus{
		models.InquiryPending, models.InquiryReplied, models.InquiryInterested,
		models.InquiryNotInterested, models.InquiryClosed,
	} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}

func TestApplyReplyForcesReplied(t *testing.T) {
	inq := newInquiry()

	reply, err := ApplyReply(inq, ownerIdentity, "still available?", true)
	require.NoError(t, err)

	assert.Equal(t, models.InquiryReplied, inq.Status)
	assert.False(t, inq.IsRead, "reply leaves the record unread for the other party")
	assert.Nil(t, inq.ReadAt)
	require.Len(t, inq.Replies, 1)
	assert.Equal(t, "owner1", reply.SenderID)
	assert.Equal(t, "Omar", reply.SenderName)
	assert.Equal(t, models.RoleOwner, reply.SenderRole)
	assert.Equal(t, "still available?", reply.Message)
	assert.WithinDuration(t, time.Now(), reply.Timestamp, time.Second)
}

func TestApplyReplyNonParticipant(t *testing.T) {
	inq := newInquiry()
	stranger := access.Identity{ID: "someone-else", Role: models.RoleTenant}

	_, err := ApplyReply(inq, stranger, "hi", true)
	assert.True(t, errors.Is(err, access.ErrForbidden))
	assert.Empty(t, inq.Replies)
	assert.Equal(t, models.InquiryPending, inq.Status)
}

func TestApplyReplyReopenModes(t *testing.T) {
	for _, sink := range []models.InquiryStatus{
		models.InquiryClosed, models.InquiryInterested, models.InquiryNotInterested,
	} {
		// Permissive mode: replying to a sink state reopens it.
		inq := newInquiry()
		inq.Status = sink
		_, err := ApplyReply(inq, tenantIdentity, "actually...", true)
		require.NoError(t, err, "reopen allowed on %s", sink)
		assert.Equal(t, models.InquiryReplied, inq.Status)

		// Rejecting mode: sink states refuse replies.
		inq = newInquiry()
		inq.Status = sink
		_, err = ApplyReply(inq, tenantIdentity, "actually...", false)
		require.Error(t, err, "reopen rejected on %s", sink)
		assert.True(t, errors.Is(err, access.ErrInquiryClosed))
		assert.Equal(t, sink, inq.Status)
		assert.Empty(t, inq.Replies)
	}

	// Non-sink states accept replies in both modes.
	for _, reopen := range []bool{true, false} {
		inq := newInquiry()
		_, err := ApplyReply(inq, tenantIdentity, "hello", reopen)
		assert.NoError(t, err)
	}
}

func TestMarkRead(t *testing.T) {
	inq := newInquiry()
	inq.IsRead = false
	now := time.Now()

	require.NoError(t, MarkRead(inq, "tenant1", now))
	assert.True(t, inq.IsRead)
	require.NotNil(t, inq.ReadAt)
	assert.Equal(t, now, *inq.ReadAt)
	assert.Equal(t, models.InquiryPending, inq.Status, "markRead never touches status")

	err := MarkRead(inq, "stranger", now)
	assert.True(t, errors.Is(err, access.ErrForbidden))
}

func TestSetStatus(t *testing.T) {
	inq := newInquiry()

	// Either participant may set any valid status.
	require.NoError(t, SetStatus(inq, "tenant1", models.InquiryNotInterested))
	assert.Equal(t, models.InquiryNotInterested, inq.Status)

	require.NoError(t, SetStatus(inq, "owner1", models.InquiryPending))
	assert.Equal(t, models.InquiryPending, inq.Status)

	err := SetStatus(inq, "tenant1", "archived")
	assert.True(t, errors.Is(err, access.ErrValidationFailed))

	err = SetStatus(inq, "stranger", models.InquiryClosed)
	assert.True(t, errors.Is(err, access.ErrForbidden))
}

// Full walk of a tenant/owner conversation, including the close-then-reply
// reopening behavior in both modes.
func TestInquiryConversationScenario(t *testing.T) {
	inq := newInquiry()
	assert.Equal(t, models.InquiryPending, inq.Status)

	// Owner replies: replied, unread for the tenant.
	_, err := ApplyReply(inq, ownerIdentity, "yes, available from June", true)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryReplied, inq.Status)
	assert.False(t, inq.IsRead)

	// Tenant reads it.
	require.NoError(t, MarkRead(inq, "tenant1", time.Now()))
	assert.True(t, inq.IsRead)

	// Tenant closes the conversation.
	require.NoError(t, SetStatus(inq, "tenant1", models.InquiryClosed))
	assert.Equal(t, models.InquiryClosed, inq.Status)

	// Owner replies again: in permissive mode this reopens the thread.
	_, err = ApplyReply(inq, ownerIdentity, "one more thing", true)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryReplied, inq.Status)
	assert.Len(t, inq.Replies, 2)

	// Same sequence in rejecting mode stays closed.
	require.NoError(t, SetStatus(inq, "tenant1", models.InquiryClosed))
	_, err = ApplyReply(inq, ownerIdentity, "hello?", false)
	require.Error(t, err)
	assert.Equal(t, models.InquiryClosed, inq.Status)
	assert.Len(t, inq.Replies, 2)
}

func TestIsParticipant(t *testing.T) {
	inq := newInquiry()
	assert.True(t, IsParticipant(inq, "tenant1"))
	assert.True(t, IsParticipant(inq, "owner1"))
	assert.False(t, IsParticipant(inq, "admin1"))
	assert.False(t, IsParticipant(inq, ""))
}
