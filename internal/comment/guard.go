package comment

import (
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
)

// Guard gates edits and deletes on record ownership
type Guard struct{}

// AuthorizeMutation fails with ForbiddenError unless principal owns the
// record. uuid.Nil is the anonymous principal and is always rejected.
func (Guard) AuthorizeMutation(record *Comment, principal uuid.UUID) error {
	if principal == uuid.Nil || record.OwnerID != principal {
		return apperrors.NewForbiddenError(apperrors.ErrMsgNotOwner)
	}
	return nil
}
