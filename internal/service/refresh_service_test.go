package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

func TestRefreshServiceRunOnceListsBothStores(t *testing.T) {
	students, courses := dashboardFixtures()
	svc := NewRefreshService(students, courses, RefreshConfig{}, nil)

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Equal(t, 1, students.calls)
	assert.Equal(t, 1, courses.calls)

	at, err := svc.LastRun()
	assert.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestRefreshServiceRunOnceContinuesPastFailure(t *testing.T) {
	students, courses := dashboardFixtures()
	students.err = appErrors.Clone(appErrors.ErrNetwork, "down")
	svc := NewRefreshService(students, courses, RefreshConfig{}, nil)

	err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh students")
	assert.Equal(t, 1, courses.calls)
}

func TestRefreshServiceDisabledWithoutSchedule(t *testing.T) {
	students, courses := dashboardFixtures()
	svc := NewRefreshService(students, courses, RefreshConfig{Schedule: "  "}, nil)

	assert.False(t, svc.Enabled())
	require.NoError(t, svc.Start())
	svc.Stop(context.Background())
}

func TestRefreshServiceRejectsInvalidSchedule(t *testing.T) {
	students, courses := dashboardFixtures()
	svc := NewRefreshService(students, courses, RefreshConfig{Schedule: "every tuesday"}, nil)

	assert.Error(t, svc.Start())
}

func TestRefreshServiceStartStop(t *testing.T) {
	students, courses := dashboardFixtures()
	svc := NewRefreshService(students, courses, RefreshConfig{Schedule: "@every 1h"}, nil)

	require.NoError(t, svc.Start())
	require.NoError(t, svc.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	svc.Stop(ctx)
}
