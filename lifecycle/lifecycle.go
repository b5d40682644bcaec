// Package lifecycle holds the inquiry state machine. An inquiry starts
// pending, moves to replied whenever either party responds, and ends in
// one of the sink states (interested, not_interested, closed) only by an
// explicit status update.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/models"
)

// IsSink reports whether a status was entered by explicit caller action
// and is terminal for forward progress.
func IsSink(s models.InquiryStatus) bool {
	switch s {
	case models.InquiryInterested, models.InquiryNotInterested, models.InquiryClosed:
		return true
	}
	return false
}

func ValidStatus(s models.InquiryStatus) bool {
	switch s {
	case models.InquiryPending, models.InquiryReplied, models.InquiryInterested,
		models.InquiryNotInterested, models.InquiryClosed:
		return true
	}
	return false
}

// IsParticipant reports whether callerID is one of the two legitimate
// writers of the inquiry.
func IsParticipant(inq *models.Inquiry, callerID string) bool {
	return inq.TenantID == callerID || inq.OwnerID == callerID
}

// CanReply decides whether a reply may be appended given the current
// status. With reopenAllowed, replies always land and force the status
// back to replied, even on a closed inquiry; without it, sink states
// reject replies.
func CanReply(status models.InquiryStatus, reopenAllowed bool) bool {
	if reopenAllowed {
		return true
	}
	return !IsSink(status)
}

// ApplyReply appends a reply and applies the status/read side effects
// in-memory: status is forced to replied and the record becomes unread
// for the party that did not just write.
func ApplyReply(inq *models.Inquiry, caller access.Identity, message string, reopenAllowed bool) (models.InquiryReply, error) {
	if !IsParticipant(inq, caller.ID) {
		return models.InquiryReply{}, access.ErrForbidden
	}
	if !CanReply(inq.Status, reopenAllowed) {
		return models.InquiryReply{}, fmt.Errorf("%w: status %s", access.ErrInquiryClosed, inq.Status)
	}

	reply := models.InquiryReply{
		SenderID:   caller.ID,
		SenderName: caller.Name,
		SenderRole: caller.Role,
		Message:    message,
		Timestamp:  time.Now(),
	}
	inq.Replies = append(inq.Replies, reply)
	inq.Status = models.InquiryReplied
	inq.IsRead = false
	inq.ReadAt = nil
	return reply, nil
}

// MarkRead sets the read flag. No effect on status.
func MarkRead(inq *models.Inquiry, callerID string, now time.Time) error {
	if !IsParticipant(inq, callerID) {
		return access.ErrForbidden
	}
	inq.IsRead = true
	inq.ReadAt = &now
	return nil
}

// SetStatus applies an explicit status change. Deliberately permissive:
// either participant may set any of the five statuses.
func SetStatus(inq *models.Inquiry, callerID string, status models.InquiryStatus) error {
	if !IsParticipant(inq, callerID) {
		return access.ErrForbidden
	}
	if !ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", access.ErrValidationFailed, status)
	}
	inq.Status = status
	return nil
}
