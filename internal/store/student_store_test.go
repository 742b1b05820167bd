package store

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/internal/repository"
	"github.com/noah-isme/student-admin-console/pkg/backend"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

func newStudentStoreAgainst(t *testing.T, handler http.HandlerFunc) *StudentStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := backend.New(backend.Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	return NewStudentStore(repository.NewStudentRepository(client), nil, nil)
}

func TestStudentStoreNormalisesCourseIDs(t *testing.T) {
	s := newStudentStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","courseIds":[3,3,4]}]`))
	})

	students, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, []int64{3, 4}, students[0].CourseIDs)
}

func TestStudentStoreUpdateReflectsServerFields(t *testing.T) {
	s := newStudentStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}]`))
		case http.MethodPut:
			_, _ = w.Write([]byte(`{"id":1,"firstName":"Ada","lastName":"King","email":"ada@example.com","updatedAt":"2026-10-18T10:00:00"}`))
		}
	})
	_, err := s.List(context.Background())
	require.NoError(t, err)

	_, err = s.Update(context.Background(), 1, models.StudentForm{FirstName: "Ada", LastName: "King", Email: "ada@example.com"})
	require.NoError(t, err)

	cached, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, "King", cached.LastName)
	assert.Equal(t, "2026-10-18T10:00:00", cached.UpdatedAt)
}

func TestStudentStoreAddCoursesDedupesAndLeavesCache(t *testing.T) {
	var body string
	s := newStudentStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/courses") {
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r.Body)
			body = buf.String()
		}
	})
	rec := 0
	s.Subscribe(func([]models.Student) { rec++ })

	require.NoError(t, s.AddCourses(context.Background(), 1, []int64{5, 5, 6}))
	assert.JSONEq(t, `[5,6]`, body)
	assert.Equal(t, 1, rec)
}

func TestStudentStoreSurfacesBackendMessage(t *testing.T) {
	s := newStudentStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email already exists: ada@example.com"}`))
	})

	_, err := s.Create(context.Background(), models.StudentForm{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email already exists")
	assert.Empty(t, s.Snapshot())
}

func TestStudentStoreCreateWithEmptyResponseCachesNothing(t *testing.T) {
	s := newStudentStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := s.List(context.Background())
	require.NoError(t, err)

	created, err := s.Create(context.Background(), models.StudentForm{FirstName: "Ada", LastName: "Lovelace"})
	assert.Nil(t, created)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Empty(t, s.Snapshot())
}
