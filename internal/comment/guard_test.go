package comment_test

import (
	"testing"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeMutation(t *testing.T) {
	owner := uuid.New()
	record := &comment.Comment{ID: uuid.New(), OwnerID: owner}

	assert.NoError(t, comment.Guard{}.AuthorizeMutation(record, owner))

	err := comment.Guard{}.AuthorizeMutation(record, uuid.New())
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = comment.Guard{}.AuthorizeMutation(record, uuid.Nil)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	anonymous := &comment.Comment{ID: uuid.New()}
	err = comment.Guard{}.AuthorizeMutation(anonymous, uuid.Nil)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
