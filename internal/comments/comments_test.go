package comments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

type fakeStore struct {
	deliverables map[uuid.UUID]models.Deliverable
	comments     map[uuid.UUID]models.TimelineComment
	now          time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deliverables: make(map[uuid.UUID]models.Deliverable),
		comments:     make(map[uuid.UUID]models.TimelineComment),
		now:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addDeliverable(duration *float64) uuid.UUID {
	d := models.Deliverable{ID: uuid.New(), ProjectID: uuid.New(), Name: "Teaser cut", Status: models.DeliverableInReview, Version: 1, DurationSeconds: duration}
	f.deliverables[d.ID] = d
	return d.ID
}

func (f *fakeStore) Deliverable(id uuid.UUID) (*models.Deliverable, error) {
	d, ok := f.deliverables[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "deliverable not found")
	}
	return &d, nil
}

func (f *fakeStore) Comment(id uuid.UUID) (*models.TimelineComment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "comment not found")
	}
	return &c, nil
}

func (f *fakeStore) InsertComment(c models.TimelineComment) (*models.TimelineComment, error) {
	c.CreatedAt = f.now
	f.now = f.now.Add(time.Second)
	f.comments[c.ID] = c
	return &c, nil
}

func (f *fakeStore) SetCommentResolved(id uuid.UUID, resolved bool) (*models.TimelineComment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "comment not found")
	}
	c.Resolved = resolved
	f.comments[id] = c
	return &c, nil
}

func (f *fakeStore) DeleteCommentThread(rootID uuid.UUID) (int64, error) {
	var removed int64
	for id, c := range f.comments {
		if id == rootID || (c.ParentID != nil && *c.ParentID == rootID) {
			delete(f.comments, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) DeleteComment(id uuid.UUID) (int64, error) {
	if _, ok := f.comments[id]; !ok {
		return 0, nil
	}
	delete(f.comments, id)
	return 1, nil
}

func (f *fakeStore) CommentsForDeliverable(deliverableID uuid.UUID) ([]models.TimelineComment, error) {
	var out []models.TimelineComment
	for _, c := range f.comments {
		if c.DeliverableID == deliverableID {
			out = append(out, c)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func teamActor() Actor   { return Actor{ID: uuid.New(), Type: models.AuthorUser} }
func clientActor() Actor { return Actor{ID: uuid.New(), Type: models.AuthorClient} }

func TestAddRootComment(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	comment, err := engine.Add(AddParams{
		DeliverableID: deliverableID,
		AuthorID:      uuid.New(),
		AuthorType:    models.AuthorClient,
		Content:       "fix logo color",
		Timestamp:     42.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.5, comment.Timestamp)
	assert.False(t, comment.Resolved)
	assert.Nil(t, comment.ParentID)
	assert.Equal(t, "fix logo color", comment.Content)
}

func TestAddRejectsEmptyContent(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	_, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "   ", Timestamp: 5})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestAddRejectsTimestampPastDuration(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(60.0))
	engine := NewEngine(store, nil)

	_, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "late note", Timestamp: 61})
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "negative", Timestamp: -1})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestAddAllowsAnyTimestampWhenDurationUnknown(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(nil)
	engine := NewEngine(store, nil)

	comment, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "note", Timestamp: 9999})
	require.NoError(t, err)
	assert.Equal(t, 9999.0, comment.Timestamp)
}

func TestReplyInheritsRootTimestamp(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "fix logo color", Timestamp: 42.5})
	require.NoError(t, err)

	reply, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "on it", Timestamp: 7, ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.Timestamp, reply.Timestamp)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)
}

func TestReplyToReplyRejected(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "root", Timestamp: 1})
	require.NoError(t, err)
	reply, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "nested", ParentID: &reply.ID})
	assert.True(t, apperr.Is(err, apperr.InvalidReference))
}

func TestReplyAcrossDeliverablesRejected(t *testing.T) {
	store := newFakeStore()
	firstID := store.addDeliverable(ptr(120.0))
	secondID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: firstID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "root", Timestamp: 1})
	require.NoError(t, err)

	_, err = engine.Add(AddParams{DeliverableID: secondID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "wrong thread", ParentID: &root.ID})
	assert.True(t, apperr.Is(err, apperr.InvalidReference))
}

func TestReplyToMissingParentRejected(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	missing := uuid.New()
	_, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "orphan", ParentID: &missing})
	assert.True(t, apperr.Is(err, apperr.InvalidReference))
}

func TestResolveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "fix logo color", Timestamp: 42.5})
	require.NoError(t, err)

	actor := teamActor()
	first, err := engine.Resolve(deliverableID, root.ID, true, actor)
	require.NoError(t, err)
	assert.True(t, first.Resolved)

	second, err := engine.Resolve(deliverableID, root.ID, true, actor)
	require.NoError(t, err)
	assert.True(t, second.Resolved)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolvePolicyBlocksSameSide(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	author := clientActor()
	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: author.ID, AuthorType: models.AuthorClient, Content: "issue", Timestamp: 3})
	require.NoError(t, err)

	// A client cannot close client-raised feedback; the team can.
	_, err = engine.Resolve(deliverableID, root.ID, true, clientActor())
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = engine.Resolve(deliverableID, root.ID, true, teamActor())
	assert.NoError(t, err)
}

func TestResolveWithCustomPolicy(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	open := Policy{
		CanResolve: func(Actor, models.TimelineComment) bool { return true },
		CanDelete:  func(Actor, models.TimelineComment) bool { return false },
	}
	engine := NewEngine(store, &open)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "issue", Timestamp: 3})
	require.NoError(t, err)

	_, err = engine.Resolve(deliverableID, root.ID, true, clientActor())
	assert.NoError(t, err)

	_, err = engine.Delete(deliverableID, root.ID, teamActor())
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestDeleteRootCascades(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "root", Timestamp: 10})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "reply", ParentID: &root.ID})
		require.NoError(t, err)
	}

	removed, err := engine.Delete(deliverableID, root.ID, teamActor())
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
	assert.Empty(t, store.comments)
}

func TestDeleteReplyLeavesRoot(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "root", Timestamp: 10})
	require.NoError(t, err)
	reply, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	removed, err := engine.Delete(deliverableID, reply.ID, teamActor())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	threads, err := engine.List(deliverableID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Empty(t, threads[0].Replies)
}

func TestDeletePolicyBlocksOtherClients(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	author := clientActor()
	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: author.ID, AuthorType: models.AuthorClient, Content: "mine", Timestamp: 1})
	require.NoError(t, err)

	_, err = engine.Delete(deliverableID, root.ID, clientActor())
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	removed, err := engine.Delete(deliverableID, root.ID, author)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestListOrdersRootsByTimestampAndRepliesByCreation(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(300.0))
	engine := NewEngine(store, nil)

	late, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "ending feels rushed", Timestamp: 250})
	require.NoError(t, err)
	early, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "intro too long", Timestamp: 5})
	require.NoError(t, err)

	firstReply, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "trimming", ParentID: &early.ID})
	require.NoError(t, err)
	secondReply, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "thanks", ParentID: &early.ID})
	require.NoError(t, err)

	threads, err := engine.List(deliverableID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, early.ID, threads[0].Root.ID)
	assert.Equal(t, late.ID, threads[1].Root.ID)
	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, firstReply.ID, threads[0].Replies[0].ID)
	assert.Equal(t, secondReply.ID, threads[0].Replies[1].ID)
}

func TestScenarioCommentAndResolve(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "fix logo color", Timestamp: 42.5})
	require.NoError(t, err)
	assert.False(t, root.Resolved)
	assert.Equal(t, 42.5, root.Timestamp)

	_, err = engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorUser, Content: "fixed in v2", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = engine.Resolve(deliverableID, root.ID, true, teamActor())
	require.NoError(t, err)

	threads, err := engine.List(deliverableID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.True(t, threads[0].Root.Resolved)
	require.Len(t, threads[0].Replies, 1)
	assert.False(t, threads[0].Replies[0].Resolved)
}

func TestMarkers(t *testing.T) {
	root := func(ts float64, resolved bool) models.TimelineComment {
		return models.TimelineComment{ID: uuid.New(), Timestamp: ts, Resolved: resolved}
	}
	parent := uuid.New()
	all := []models.TimelineComment{
		root(0, false),
		root(30, true),
		root(500, false), // Past the end, clamps to 1
		{ID: uuid.New(), ParentID: &parent, Timestamp: 30},
	}

	markers := Markers(all, 60)
	require.Len(t, markers, 3)
	assert.Equal(t, 0.0, markers[0].Position)
	assert.Equal(t, 0.5, markers[1].Position)
	assert.True(t, markers[1].Resolved)
	assert.Equal(t, 1.0, markers[2].Position)
}

func TestMarkersZeroDuration(t *testing.T) {
	all := []models.TimelineComment{{ID: uuid.New(), Timestamp: 42}}
	markers := Markers(all, 0)
	require.Len(t, markers, 1)
	assert.Equal(t, 0.0, markers[0].Position)
}

func TestResolveAndDeleteRejectWrongDeliverable(t *testing.T) {
	store := newFakeStore()
	deliverableID := store.addDeliverable(ptr(120.0))
	otherID := store.addDeliverable(ptr(60.0))
	engine := NewEngine(store, nil)

	root, err := engine.Add(AddParams{DeliverableID: deliverableID, AuthorID: uuid.New(), AuthorType: models.AuthorClient, Content: "fix logo color", Timestamp: 42.5})
	require.NoError(t, err)

	// Addressing the comment through another deliverable's URL must not
	// reach it.
	_, err = engine.Resolve(otherID, root.ID, true, teamActor())
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = engine.Delete(otherID, root.ID, teamActor())
	assert.True(t, apperr.Is(err, apperr.NotFound))

	// The right URL still works.
	resolved, err := engine.Resolve(deliverableID, root.ID, true, teamActor())
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
}
