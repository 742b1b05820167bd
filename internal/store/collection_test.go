package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-admin-console/internal/models"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

type fakeCourseRepo struct {
	mu       sync.Mutex
	courses  []models.Course
	nextID   int64
	err      error
	lastForm models.CourseForm
	searched string
	added    map[int64][]int64
}

func (f *fakeCourseRepo) List(context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Course, len(f.courses))
	copy(out, f.courses)
	return out, nil
}

func (f *fakeCourseRepo) ListActive(ctx context.Context) ([]models.Course, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	var active []models.Course
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (f *fakeCourseRepo) Search(_ context.Context, query string) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searched = query
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Course
	for _, c := range f.courses {
		if c.CourseCode == query {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id int64) (*models.Course, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	for _, c := range f.courses {
		if c.ID == id {
			found := c
			return &found, "", nil
		}
	}
	return nil, "", appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (f *fakeCourseRepo) Create(_ context.Context, form models.CourseForm) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastForm = form
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c := models.Course{ID: f.nextID, CourseCode: form.CourseCode, CourseName: form.CourseName, Credits: form.Credits, Price: form.Price, IsActive: form.IsActive}
	f.courses = append(f.courses, c)
	return &c, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, id int64, form models.CourseForm, _ string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastForm = form
	if f.err != nil {
		return nil, f.err
	}
	c := models.Course{ID: id, CourseCode: form.CourseCode, CourseName: form.CourseName, Credits: form.Credits, Price: form.Price, IsActive: form.IsActive, UpdatedAt: "2026-10-18"}
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses[i] = c
		}
	}
	return &c, nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	kept := f.courses[:0]
	for _, c := range f.courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.courses = kept
	return nil
}

func (f *fakeCourseRepo) AddStudents(_ context.Context, courseID int64, studentIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.added == nil {
		f.added = map[int64][]int64{}
	}
	f.added[courseID] = studentIDs
	return f.err
}

type countingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *countingObserver) ObserveRepublish(store string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
	}
	o.calls[store]++
}

type recorder struct {
	mu       sync.Mutex
	received [][]models.Course
}

func (r *recorder) fn(items []models.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, items)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func (r *recorder) last() []models.Course {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.received[len(r.received)-1]
}

func seededCourses() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: []models.Course{
			{ID: 1, CourseCode: "CS101", CourseName: "Intro to CS", Credits: 3, Price: 100, IsActive: true},
			{ID: 2, CourseCode: "MA201", CourseName: "Linear Algebra", Credits: 4, Price: 120},
		},
		nextID: 2,
	}
}

func TestCollectionListReplacesAndRepublishes(t *testing.T) {
	repo := seededCourses()
	obs := &countingObserver{}
	s := NewCourseStore(repo, nil, obs)
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.fn)
	defer unsubscribe()

	require.Equal(t, 1, rec.count())
	assert.Empty(t, rec.last())
	assert.False(t, s.Loaded())

	courses, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.True(t, s.Loaded())
	assert.Equal(t, 2, rec.count())
	assert.Len(t, rec.last(), 2)
	assert.Equal(t, 1, obs.calls["courses"])
}

func TestCollectionListFailureKeepsCache(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, err := s.List(context.Background())
	require.NoError(t, err)

	rec := &recorder{}
	s.Subscribe(rec.fn)
	repo.err = appErrors.Clone(appErrors.ErrNetwork, "down")

	_, err = s.List(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrNetwork))
	assert.Len(t, s.Snapshot(), 2)
	assert.Equal(t, 1, rec.count())
}

func TestCollectionCreateAppendsServerEntityOnce(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, err := s.List(context.Background())
	require.NoError(t, err)
	before := len(s.Snapshot())

	created, err := s.Create(context.Background(), models.CourseForm{CourseCode: "PH101", CourseName: "Physics I", Credits: 3, Price: 99.99, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	snapshot := s.Snapshot()
	assert.Len(t, snapshot, before+1)
	occurrences := 0
	for _, c := range snapshot {
		if c.ID == created.ID {
			occurrences++
			assert.InDelta(t, 99.99, c.Price, 0.0001)
		}
	}
	assert.Equal(t, 1, occurrences)
}

func TestCollectionCreateAfterConcurrentListDoesNotDuplicate(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	created, err := s.Create(context.Background(), models.CourseForm{CourseCode: "PH101", CourseName: "Physics I", Credits: 3, Price: 10})
	require.NoError(t, err)

	// The list already carries the new course when the create response lands.
	_, err = s.List(context.Background())
	require.NoError(t, err)
	repo.mu.Lock()
	repo.nextID = created.ID - 1
	repo.courses = repo.courses[:len(repo.courses)-1]
	repo.mu.Unlock()
	_, err = s.Create(context.Background(), models.CourseForm{CourseCode: "PH101", CourseName: "Physics I", Credits: 3, Price: 10})
	require.NoError(t, err)

	count := 0
	for _, c := range s.Snapshot() {
		if c.ID == created.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCollectionCreateFailureLeavesCache(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, _ = s.List(context.Background())
	rec := &recorder{}
	s.Subscribe(rec.fn)

	repo.err = appErrors.Clone(appErrors.ErrValidation, "Course code already exists: CS101")
	_, err := s.Create(context.Background(), models.CourseForm{CourseCode: "CS101"})
	require.Error(t, err)
	assert.Len(t, s.Snapshot(), 2)
	assert.Equal(t, 1, rec.count())
}

func TestCollectionUpdateReplacesCachedEntry(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, _ = s.List(context.Background())

	updated, err := s.Update(context.Background(), 2, models.CourseForm{CourseCode: "MA202", CourseName: "Linear Algebra II", Credits: 5, Price: 130})
	require.NoError(t, err)

	cached, ok := s.Find(2)
	require.True(t, ok)
	assert.Equal(t, *updated, cached)
	assert.Equal(t, "2026-10-18", cached.UpdatedAt)
	assert.Len(t, s.Snapshot(), 2)
}

func TestCollectionUpdateOfUncachedEntityDoesNotRepublish(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	rec := &recorder{}
	s.Subscribe(rec.fn)

	updated, err := s.Update(context.Background(), 2, models.CourseForm{CourseCode: "MA202"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.ID)
	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 1, rec.count())
}

func TestCollectionDeleteRemovesEntry(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, _ = s.List(context.Background())

	require.NoError(t, s.Delete(context.Background(), 1))
	_, ok := s.Find(1)
	assert.False(t, ok)
	assert.Len(t, s.Snapshot(), 1)
}

func TestCollectionDeleteFailureLeavesCache(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, _ = s.List(context.Background())
	repo.err = appErrors.Clone(appErrors.ErrNotFound, "Course not found with id: 1")

	err := s.Delete(context.Background(), 1)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, ok := s.Find(1)
	assert.True(t, ok)
}

func TestCollectionBlankSearchEqualsList(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)

	listed, err := s.List(context.Background())
	require.NoError(t, err)
	searched, err := s.Search(context.Background(), "   ")
	require.NoError(t, err)

	assert.Equal(t, listed, searched)
	assert.Empty(t, repo.searched)
}

func TestCollectionSearchReplacesCache(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	_, _ = s.List(context.Background())

	result, err := s.Search(context.Background(), " MA201 ")
	require.NoError(t, err)
	assert.Equal(t, "MA201", repo.searched)
	require.Len(t, result, 1)
	assert.Equal(t, result, s.Snapshot())
}

func TestCollectionSearchMarksCacheFilteredUntilList(t *testing.T) {
	s := NewCourseStore(seededCourses(), nil, nil)
	assert.False(t, s.Filtered())

	var seen []bool
	s.Subscribe(func([]models.Course) { seen = append(seen, s.Filtered()) })

	_, err := s.Search(context.Background(), "MA201")
	require.NoError(t, err)
	assert.True(t, s.Filtered())

	_, err = s.List(context.Background())
	require.NoError(t, err)
	assert.False(t, s.Filtered())
	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestCollectionGetDoesNotTouchCache(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)

	course, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.CourseCode)
	assert.Empty(t, s.Snapshot())

	_, err = s.Get(context.Background(), 99)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCollectionSubscribersReceiveCopies(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	var got []models.Course
	s.Subscribe(func(items []models.Course) { got = items })
	_, _ = s.List(context.Background())

	got[0].CourseName = "mutated"
	cached, _ := s.Find(1)
	assert.Equal(t, "Intro to CS", cached.CourseName)
}

func TestCollectionUnsubscribe(t *testing.T) {
	s := NewCourseStore(seededCourses(), nil, nil)
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.fn)
	assert.Equal(t, 1, s.Subscribers())
	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, s.Subscribers())

	_, _ = s.List(context.Background())
	assert.Equal(t, 1, rec.count())
}

func TestCollectionHydrateOnlyBeforeFirstLoad(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)

	assert.True(t, s.Hydrate([]models.Course{{ID: 9, CourseCode: "OLD"}}))
	assert.Len(t, s.Snapshot(), 1)
	assert.False(t, s.Loaded())

	_, _ = s.List(context.Background())
	assert.False(t, s.Hydrate([]models.Course{{ID: 9}}))
	assert.Len(t, s.Snapshot(), 2)
}

func TestCourseStoreListActiveAndAddStudents(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)

	active, err := s.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Empty(t, s.Snapshot())

	require.NoError(t, s.AddStudents(context.Background(), 1, []int64{4, 4, 5}))
	assert.Equal(t, []int64{4, 5}, repo.added[1])
}

func TestCollectionConcurrentListsSettleOnLastApplied(t *testing.T) {
	repo := seededCourses()
	s := NewCourseStore(repo, nil, nil)
	rec := &recorder{}
	s.Subscribe(rec.fn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.List(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, s.Snapshot(), rec.last())
	assert.Equal(t, 9, rec.count())
}
