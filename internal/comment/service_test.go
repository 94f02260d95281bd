package comment_test

import (
	"errors"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadScenario(t *testing.T) {
	f := newFixture(t)
	v1 := f.video()
	u1 := f.user("u1")
	u2 := f.user("u2")

	c1, err := f.svc.CreateComment(f.ctx, v1, u1, "nice video")
	require.NoError(t, err)
	assert.Nil(t, c1.ParentID)
	assert.Equal(t, v1, c1.VideoID)
	assert.Equal(t, "u1", c1.Owner.Username)

	r1, err := f.svc.CreateReply(f.ctx, c1.ID, u2, "thanks")
	require.NoError(t, err)
	require.NotNil(t, r1.ParentID)
	assert.Equal(t, c1.ID, *r1.ParentID)
	assert.Equal(t, v1, r1.VideoID)

	_, err = f.svc.CreateReply(f.ctx, r1.ID, u1, "you're welcome")
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))

	require.NoError(t, f.svc.DeleteComment(f.ctx, c1.ID, u1))

	_, err = f.svc.GetComment(f.ctx, r1.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, f.repo.Len())

	assert.Equal(t, []string{"COMMENT_CREATED", "COMMENT_REPLIED", "COMMENT_DELETED"}, f.events.events)
}

func TestDeleteEventsCountCascadedReplies(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	fan := f.user("fan")
	top, err := f.svc.CreateComment(f.ctx, f.video(), owner, "thread")
	require.NoError(t, err)
	var last *comment.EnrichedComment
	for i := 0; i < 3; i++ {
		last, err = f.svc.CreateReply(f.ctx, top.ID, fan, "reply")
		require.NoError(t, err)
	}

	_, err = f.svc.DeleteReply(f.ctx, top.ID, last.ID, fan)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteComment(f.ctx, top.ID, owner))

	assert.Equal(t, []int{0, 2}, f.events.removed)
	assert.Equal(t, 0, f.repo.Len())
}

func TestDepthInvariantCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	top, err := f.svc.CreateComment(f.ctx, f.video(), u, "top")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(f.ctx, top.ID, u, "reply")
	require.NoError(t, err)
	before := f.repo.Len()

	_, err = f.svc.CreateReply(f.ctx, reply.ID, u, "too deep")

	var invariant *apperrors.InvariantViolation
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, apperrors.ErrMsgReplyToReply, invariant.Message)
	assert.Equal(t, before, f.repo.Len())
}

func TestOwnershipInvariant(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	intruder := f.user("intruder")
	top, err := f.svc.CreateComment(f.ctx, f.video(), owner, "mine")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(f.ctx, top.ID, owner, "also mine")
	require.NoError(t, err)

	for _, principal := range []uuid.UUID{intruder, uuid.Nil} {
		_, err = f.svc.EditComment(f.ctx, top.ID, principal, "hijacked")
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

		err = f.svc.DeleteComment(f.ctx, top.ID, principal)
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

		_, err = f.svc.EditReply(f.ctx, top.ID, reply.ID, principal, "hijacked")
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

		_, err = f.svc.DeleteReply(f.ctx, top.ID, reply.ID, principal)
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	}

	got, err := f.svc.GetComment(f.ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Content)
	assert.Equal(t, top.UpdatedAt, got.UpdatedAt)
	got, err = f.svc.GetComment(f.ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, "also mine", got.Content)
}

func TestAnonymousCannotCreate(t *testing.T) {
	f := newFixture(t)
	top, err := f.svc.CreateComment(f.ctx, f.video(), f.user("u"), "top")
	require.NoError(t, err)

	_, err = f.svc.CreateComment(f.ctx, f.video(), uuid.Nil, "hello")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	_, err = f.svc.CreateReply(f.ctx, top.ID, uuid.Nil, "hello")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, 1, f.repo.Len())
}

func TestContentNonEmptiness(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	video := f.video()
	top, err := f.svc.CreateComment(f.ctx, video, u, "original")
	require.NoError(t, err)

	for _, content := range []string{"", "   ", "\n\t", "<b></b>", "<script>alert(1)</script>"} {
		_, err := f.svc.CreateComment(f.ctx, video, u, content)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "create %q", content)

		_, err = f.svc.CreateReply(f.ctx, top.ID, u, content)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "reply %q", content)

		_, err = f.svc.EditComment(f.ctx, top.ID, u, content)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "edit %q", content)
	}

	assert.Equal(t, 1, f.repo.Len())
	got, err := f.svc.GetComment(f.ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Content)
}

func TestCreateCommentChecksVideo(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")

	_, err := f.svc.CreateComment(f.ctx, uuid.New(), u, "hello")
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "video", notFound.Resource)

	f.videos.err = errors.New("catalogue down")
	_, err = f.svc.CreateComment(f.ctx, uuid.New(), u, "hello")
	assert.Equal(t, apperrors.KindDependency, apperrors.KindOf(err))
	assert.Equal(t, 0, f.repo.Len())
}

func TestCreateReplyToMissingParent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateReply(f.ctx, uuid.New(), f.user("u"), "hello")

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "parent comment", notFound.Resource)
}

func TestEditComment(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	top, err := f.svc.CreateComment(f.ctx, f.video(), u, "first")
	require.NoError(t, err)

	edited, err := f.svc.EditComment(f.ctx, top.ID, u, "  <i>second</i> & more  ")
	require.NoError(t, err)
	assert.Equal(t, "second & more", edited.Content)
	assert.Equal(t, "u", edited.Owner.Username)
	assert.False(t, edited.UpdatedAt.Before(top.UpdatedAt))
	assert.Equal(t, top.CreatedAt, edited.CreatedAt)

	_, err = f.svc.EditComment(f.ctx, uuid.New(), u, "x")
	assert.True(t, apperrors.IsNotFound(err))

	assert.Contains(t, f.events.events, "COMMENT_UPDATED")
}

func TestEditAndDeleteReplyRequireMatchingParent(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	video := f.video()
	a, err := f.svc.CreateComment(f.ctx, video, u, "a")
	require.NoError(t, err)
	b, err := f.svc.CreateComment(f.ctx, video, u, "b")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(f.ctx, a.ID, u, "reply to a")
	require.NoError(t, err)

	_, err = f.svc.EditReply(f.ctx, b.ID, reply.ID, u, "moved")
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))

	_, err = f.svc.DeleteReply(f.ctx, b.ID, reply.ID, u)
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))

	// a top-level comment is not a reply of anything
	_, err = f.svc.DeleteReply(f.ctx, a.ID, b.ID, u)
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))

	_, err = f.svc.DeleteReply(f.ctx, a.ID, uuid.New(), u)
	assert.True(t, apperrors.IsNotFound(err))

	edited, err := f.svc.EditReply(f.ctx, a.ID, reply.ID, u, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.Equal(t, video, edited.VideoID)

	deleted, err := f.svc.DeleteReply(f.ctx, a.ID, reply.ID, u)
	require.NoError(t, err)
	assert.Equal(t, reply.ID, deleted.ID)
	assert.Equal(t, 2, f.repo.Len())
}

func TestDeleteCommentRejectsReplies(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	top, err := f.svc.CreateComment(f.ctx, f.video(), u, "top")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(f.ctx, top.ID, u, "reply")
	require.NoError(t, err)

	err = f.svc.DeleteComment(f.ctx, reply.ID, u)
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))
	assert.Equal(t, 2, f.repo.Len())

	err = f.svc.DeleteComment(f.ctx, uuid.New(), u)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEditCommentWorksOnReplies(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	top, err := f.svc.CreateComment(f.ctx, f.video(), u, "top")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(f.ctx, top.ID, u, "reply")
	require.NoError(t, err)

	edited, err := f.svc.EditComment(f.ctx, reply.ID, u, "edited reply")
	require.NoError(t, err)
	assert.Equal(t, "edited reply", edited.Content)
	assert.Equal(t, top.ID, *edited.ParentID)
}

func TestListVideoCommentsUnknownVideo(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListVideoComments(f.ctx, uuid.New(), defaultOpts())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListRepliesOldestFirst(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	video := f.video()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	top := f.seed(t, video, u, nil, base)
	third := f.seed(t, uuid.Nil, u, &top.ID, base.Add(3*time.Minute))
	first := f.seed(t, uuid.Nil, u, &top.ID, base.Add(time.Minute))
	second := f.seed(t, uuid.Nil, u, &top.ID, base.Add(2*time.Minute))

	// sort parameters are ignored for replies
	opts := comment.ParseListOptions("1", "10", "updatedAt", "desc", testConfig)
	page, err := f.svc.ListReplies(f.ctx, top.ID, opts)
	require.NoError(t, err)

	require.Len(t, page.Comments, 3)
	assert.Equal(t, first.ID, page.Comments[0].ID)
	assert.Equal(t, second.ID, page.Comments[1].ID)
	assert.Equal(t, third.ID, page.Comments[2].ID)
	for _, c := range page.Comments {
		assert.Equal(t, video, c.VideoID)
	}

	_, err = f.svc.ListReplies(f.ctx, uuid.New(), opts)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListVideoCommentsHugePage(t *testing.T) {
	for name, build := range map[string]func(*testing.T) *fixture{
		"sequential":    newFixture,
		"transactional": newTransactionalFixture,
	} {
		t.Run(name, func(t *testing.T) {
			f := build(t)
			u := f.user("u")
			video := f.video()
			for i := 0; i < 3; i++ {
				_, err := f.svc.CreateComment(f.ctx, video, u, "hello")
				require.NoError(t, err)
			}

			opts := comment.ParseListOptions("9223372036854775807", "10", "", "", testConfig)
			var page *comment.EnrichedPage
			require.NotPanics(t, func() {
				var err error
				page, err = f.svc.ListVideoComments(f.ctx, video, opts)
				require.NoError(t, err)
			})

			assert.Empty(t, page.Comments)
			assert.Equal(t, int64(3), page.TotalCount)
			assert.Equal(t, 1, page.TotalPages)
			assert.False(t, page.HasNextPage)
			assert.True(t, page.HasPrevPage)
		})
	}
}

func TestListAll(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	video := f.video()
	top, err := f.svc.CreateComment(f.ctx, video, u, "top")
	require.NoError(t, err)
	_, err = f.svc.CreateReply(f.ctx, top.ID, u, "reply")
	require.NoError(t, err)
	_, err = f.svc.CreateComment(f.ctx, f.video(), u, "elsewhere")
	require.NoError(t, err)

	page, err := f.svc.ListAll(f.ctx, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	for _, c := range page.Comments {
		assert.NotEqual(t, uuid.Nil, c.VideoID)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker unavailable")

	_, err := f.svc.CreateComment(f.ctx, f.video(), f.user("u"), "hello")
	require.NoError(t, err)

	warnings := f.log.GetWarnMessages()
	require.Len(t, warnings, 1)
	assert.Equal(t, "COMMENT_CREATED", warnings[0].Fields["event"])
}

func TestOperationsAreRecorded(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	top, err := f.svc.CreateComment(f.ctx, f.video(), u, "hello")
	require.NoError(t, err)
	err = f.svc.DeleteComment(f.ctx, top.ID, uuid.New())
	require.Error(t, err)

	require.Len(t, f.recorder.ops, 2)
	assert.Equal(t, comment.OpCreateComment, f.recorder.ops[0].op)
	assert.NoError(t, f.recorder.ops[0].err)
	assert.Equal(t, comment.OpDeleteComment, f.recorder.ops[1].op)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(f.recorder.ops[1].err))
}
