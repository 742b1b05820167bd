package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentNormalizeDedupesCourses(t *testing.T) {
	s := Student{ID: 1, CourseIDs: []int64{5, 7, 5, 9, 7}}.Normalize()
	assert.Equal(t, []int64{5, 7, 9}, s.CourseIDs)
	assert.True(t, s.HasCourse(9))
	assert.False(t, s.HasCourse(4))
}

func TestStudentFormCopiesCourseIDs(t *testing.T) {
	s := Student{FirstName: "Ada", LastName: "Lovelace", CourseIDs: []int64{1}}
	form := s.Form()
	form.CourseIDs[0] = 99
	assert.Equal(t, int64(1), s.CourseIDs[0])
	assert.Equal(t, "Ada Lovelace", s.FullName())
}

func TestStudentFormEmptyCoursesSerializeAsArray(t *testing.T) {
	raw, err := json.Marshal(StudentForm{CourseIDs: []int64{}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"courseIds":[]`)
}

func TestCourseDecodesBackendShape(t *testing.T) {
	var c Course
	err := json.Unmarshal([]byte(`{"id":3,"courseCode":"CS101","courseName":"Intro to CS","credits":3,"price":99.99,"isActive":true,"studentIds":[1,2]}`), &c)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Identity())
	assert.InDelta(t, 99.99, c.Price, 0.0001)
	assert.True(t, c.IsActive)
	assert.Equal(t, []int64{1, 2}, c.Form().StudentIDs)
}

func TestUniqueIDsKeepsNil(t *testing.T) {
	assert.Nil(t, UniqueIDs(nil))
	assert.Equal(t, []int64{}, UniqueIDs([]int64{}))
}
