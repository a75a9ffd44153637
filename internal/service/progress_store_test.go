package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pathway/internal/db"
	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/repository"
	"github.com/alexanderramin/pathway/internal/testutil"
)

type storeFixture struct {
	ctx   context.Context
	store ProgressStore
	uow   db.UnitOfWork
	clock *time.Time
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	now := testutil.FixedTime
	f := &storeFixture{ctx: context.Background(), uow: uow, clock: &now}
	f.store = NewProgressStore(uow, "test", nil, WithClock(func() time.Time { return *f.clock }))
	return f
}

func (f *storeFixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func TestProgressStore_LoadEmpty(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Load(f.ctx)
	assert.ErrorIs(t, err, ErrNoCourse)
}

func TestProgressStore_StartAndLoadRoundTrip(t *testing.T) {
	f := newStoreFixture(t)
	course := testutil.NewTestCourse(3)

	p, err := f.store.Start(f.ctx, course)
	require.NoError(t, err)
	assert.Equal(t, course.ID, p.CourseID)
	assert.Equal(t, 1, p.CurrentChapter)
	assert.Empty(t, p.CompletedChapters)

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, course, snap.Course)
	assert.Equal(t, p, snap.Progress)
}

func TestProgressStore_SaveCourseWithoutProgress(t *testing.T) {
	f := newStoreFixture(t)
	course := testutil.NewTestCourse(3, 1)
	require.NoError(t, f.store.SaveCourse(f.ctx, course))

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Course.ReadyCount())
	assert.Nil(t, snap.Progress)
}

func TestProgressStore_SaveCourseDropsProgressOfOtherCourse(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	other := testutil.NewTestCourse(3)
	other.ID = "course-other"
	require.NoError(t, f.store.SaveCourse(f.ctx, other))

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "course-other", snap.Course.ID)
	assert.Nil(t, snap.Progress)
}

func TestProgressStore_RecordVisit(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	f.advance(time.Hour)
	p, err := f.store.RecordVisit(f.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentChapter)
	assert.Equal(t, testutil.FixedTime.Add(time.Hour), p.LastAccessedAt)

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Progress.CurrentChapter)
}

func TestProgressStore_RecordOnUnfinishedCourseIsRejected(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.SaveCourse(f.ctx, testutil.NewTestCourse(10, 1, 2)))

	_, err := f.store.RecordVisit(f.ctx, 1)
	assert.ErrorIs(t, err, ErrCourseIncomplete)
	_, _, err = f.store.RecordCompletion(f.ctx, 9)
	assert.ErrorIs(t, err, ErrCourseIncomplete)

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Progress)

	_, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(), MatchPersona)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestProgressStore_CachedRejectsUnfinishedCourseWithProgress(t *testing.T) {
	f := newStoreFixture(t)
	// Progress left over from an older build next to a half-generated course.
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)
	partial := testutil.NewTestCourse(3, 1)
	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	partial.ID = snap.Course.ID
	require.NoError(t, f.store.SaveCourse(f.ctx, partial))

	_, _, err = f.store.RecordCompletion(f.ctx, 2)
	assert.ErrorIs(t, err, ErrChapterNotReady)

	_, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(), MatchPersona)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestProgressStore_RecordErrors(t *testing.T) {
	f := newStoreFixture(t)

	_, err := f.store.RecordVisit(f.ctx, 1)
	assert.ErrorIs(t, err, ErrNoCourse)
	_, _, err = f.store.RecordCompletion(f.ctx, 1)
	assert.ErrorIs(t, err, ErrNoCourse)

	_, err = f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	_, err = f.store.RecordVisit(f.ctx, 4)
	assert.ErrorIs(t, err, ErrChapterNotFound)
	_, _, err = f.store.RecordCompletion(f.ctx, 0)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestProgressStore_RecordCompletionIsIdempotent(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(5))
	require.NoError(t, err)

	_, changed, err := f.store.RecordCompletion(f.ctx, 3)
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = f.store.RecordCompletion(f.ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)

	first, err := f.store.Load(f.ctx)
	require.NoError(t, err)

	f.advance(24 * time.Hour)
	p, changed, err := f.store.RecordCompletion(f.ctx, 3)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []int{1, 3}, p.CompletedChapters)

	second, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Progress, second.Progress, "a repeated completion must not touch the stored record")
}

func TestProgressStore_Clear(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	require.NoError(t, f.store.Clear(f.ctx))
	_, err = f.store.Load(f.ctx)
	assert.ErrorIs(t, err, ErrNoCourse)

	// Clearing an empty slot is fine.
	require.NoError(t, f.store.Clear(f.ctx))
}

func TestProgressStore_SlotsAreIsolated(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	dev := NewProgressStore(uow, "development", nil)
	prod := NewProgressStore(uow, "production", nil)
	ctx := context.Background()

	_, err := dev.Start(ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	_, err = prod.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCourse)
}

func TestProgressStore_CorruptCourseIsDiscarded(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	err = f.uow.WithinTx(f.ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `UPDATE snapshots SET payload = '{not json' WHERE slot = 'test' AND key = ?`, repository.KeyCourse)
		return err
	})
	require.NoError(t, err)

	_, err = f.store.Load(f.ctx)
	assert.ErrorIs(t, err, ErrNoCourse)

	// The whole slot was wiped, so the progress is gone too.
	err = f.uow.WithinTx(f.ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := repository.NewSQLiteSnapshotRepo(tx, "test").Get(ctx, repository.KeyProgress)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgressStore_UnknownProgressVersionIsDropped(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	err = f.uow.WithinTx(f.ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `UPDATE snapshots SET schema_version = 99 WHERE key = ?`, repository.KeyProgress)
		return err
	})
	require.NoError(t, err)

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.NotNil(t, snap.Course)
	assert.Nil(t, snap.Progress)
}

func TestProgressStore_CachedPersonaMatch(t *testing.T) {
	f := newStoreFixture(t)
	course := testutil.NewTestCourse(3)
	_, err := f.store.Start(f.ctx, course)
	require.NoError(t, err)

	// Same persona, different score: still reusable by default.
	snap, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(testutil.WithScore(80)), MatchPersona)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, course.ID, snap.Course.ID)
}

func TestProgressStore_CachedPersonaMismatchDiscards(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	_, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(testutil.WithPersona(domain.PersonaTechnical)), MatchPersona)
	require.NoError(t, err)
	assert.False(t, hit)

	_, err = f.store.Load(f.ctx)
	assert.ErrorIs(t, err, ErrNoCourse)
}

func TestProgressStore_CachedStrictFingerprint(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(3))
	require.NoError(t, err)

	_, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(), MatchProfile)
	require.NoError(t, err)
	assert.True(t, hit)

	_, hit, err = f.store.Cached(f.ctx, testutil.NewTestProfile(testutil.WithIndustry("Healthcare & Life Sciences")), MatchProfile)
	require.NoError(t, err)
	assert.False(t, hit)
	_, err = f.store.Load(f.ctx)
	assert.ErrorIs(t, err, ErrNoCourse)
}

func TestProgressStore_CachedRequiresProgress(t *testing.T) {
	f := newStoreFixture(t)
	// A course saved mid-generation has no progress yet and is not reusable.
	require.NoError(t, f.store.SaveCourse(f.ctx, testutil.NewTestCourse(3, 1)))

	_, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(), MatchPersona)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestProgressStore_CachedEmptySlot(t *testing.T) {
	f := newStoreFixture(t)
	snap, hit, err := f.store.Cached(f.ctx, testutil.NewTestProfile(), MatchPersona)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, snap)
}

func TestProgressStore_StartRollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	// Exec 1 writes the course, exec 2 the progress.
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom}
	store := NewProgressStore(failing, "test", nil)
	ctx := context.Background()

	_, err := store.Start(ctx, testutil.NewTestCourse(3))
	require.ErrorIs(t, err, boom)

	_, err = NewProgressStore(testutil.NewTestUoW(database), "test", nil).Load(ctx)
	assert.ErrorIs(t, err, ErrNoCourse, "the course write must be rolled back with the progress write")
}

func TestProgressStore_ConcurrentCompletions(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.store.Start(f.ctx, testutil.NewTestCourse(10))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for n := 1; n <= 10; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := f.store.RecordCompletion(f.ctx, n)
			assert.NoError(t, err)
		}(n)
	}
	wg.Wait()

	snap, err := f.store.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, snap.Progress.CompletedChapters)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func TestProgressStore_ObserverSeesUseCases(t *testing.T) {
	database := testutil.NewTestDB(t)
	obs := &recordingObserver{}
	store := NewProgressStore(testutil.NewTestUoW(database), "test", nil, WithObserver(obs))
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNoCourse)
	_, err = store.Start(ctx, testutil.NewTestCourse(2))
	require.NoError(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "store.load", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "store.start", obs.events[1].Name)
	assert.True(t, obs.events[1].Success)
}
