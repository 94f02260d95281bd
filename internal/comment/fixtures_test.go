package comment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	"github.com/consensuslabs/pavilion-comments/internal/database/memory"
	"github.com/consensuslabs/pavilion-comments/internal/identity"
	"github.com/consensuslabs/pavilion-comments/testhelper"
	"github.com/google/uuid"
)

type fakeVideos struct {
	mu    sync.Mutex
	known map[uuid.UUID]bool
	err   error
}

func (f *fakeVideos) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.known[id], nil
}

type fakeDirectory struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]identity.Profile
	err      error
	calls    int
}

func (f *fakeDirectory) PublicProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]identity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]identity.Profile, len(ids))
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []string
	removed []int
	err     error
}

func (p *recordingPublisher) record(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
	return p.err
}

func (p *recordingPublisher) PublishCommentCreated(context.Context, *comment.Comment) error {
	return p.record("COMMENT_CREATED")
}

func (p *recordingPublisher) PublishCommentReplied(context.Context, *comment.Comment, *comment.Comment) error {
	return p.record("COMMENT_REPLIED")
}

func (p *recordingPublisher) PublishCommentUpdated(context.Context, *comment.Comment) error {
	return p.record("COMMENT_UPDATED")
}

func (p *recordingPublisher) PublishCommentDeleted(_ context.Context, _ *comment.Comment, repliesRemoved int) error {
	p.mu.Lock()
	p.removed = append(p.removed, repliesRemoved)
	p.mu.Unlock()
	return p.record("COMMENT_DELETED")
}

type recordedOp struct {
	op  string
	err error
}

type recordingRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *recordingRecorder) ObserveOperation(op string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{op, err})
}

type fixture struct {
	ctx      context.Context
	repo     *memory.CommentRepository
	videos   *fakeVideos
	dir      *fakeDirectory
	events   *recordingPublisher
	recorder *recordingRecorder
	log      *testhelper.TestLogger
	svc      comment.Service
}

var testConfig = comment.Config{MaxContentLength: 200, DefaultPageSize: 10, MaxPageSize: 100}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return buildFixture(t, func(r *memory.CommentRepository) comment.Repository { return r })
}

func newTransactionalFixture(t *testing.T) *fixture {
	t.Helper()
	return buildFixture(t, func(r *memory.CommentRepository) comment.Repository { return r.Transactional() })
}

func buildFixture(t *testing.T, wrap func(*memory.CommentRepository) comment.Repository) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		repo:     memory.NewCommentRepository(),
		videos:   &fakeVideos{known: map[uuid.UUID]bool{}},
		dir:      &fakeDirectory{profiles: map[uuid.UUID]identity.Profile{}},
		events:   &recordingPublisher{},
		recorder: &recordingRecorder{},
		log:      testhelper.NewTestLogger(false),
	}
	f.svc = comment.NewService(wrap(f.repo), f.videos, f.dir, testConfig, f.log,
		comment.WithEventPublisher(f.events),
		comment.WithRecorder(f.recorder),
	)
	return f
}

func (f *fixture) user(name string) uuid.UUID {
	id := uuid.New()
	f.dir.mu.Lock()
	defer f.dir.mu.Unlock()
	f.dir.profiles[id] = identity.Profile{ID: id, FullName: name + " Doe", Username: name, Avatar: "avatars/" + name + ".png"}
	return id
}

func (f *fixture) video() uuid.UUID {
	id := uuid.New()
	f.videos.mu.Lock()
	defer f.videos.mu.Unlock()
	f.videos.known[id] = true
	return id
}

// seed inserts a record directly with a chosen creation time
func (f *fixture) seed(t *testing.T, videoID, owner uuid.UUID, parentID *uuid.UUID, createdAt time.Time) *comment.Comment {
	t.Helper()
	c := &comment.Comment{
		ID:        uuid.New(),
		Content:   "seeded",
		VideoID:   videoID,
		OwnerID:   owner,
		ParentID:  parentID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if parentID != nil {
		c.VideoID = uuid.Nil
	}
	if err := f.repo.Insert(f.ctx, c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

func defaultOpts() comment.ListOptions {
	return comment.ParseListOptions("", "", "", "", testConfig)
}
