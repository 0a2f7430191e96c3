package usecase

import (
	"context"
	"testing"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercent(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 12, 0},
		{1, 3, 33},
		{2, 3, 67},
		{12, 12, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompletionPercent(tt.completed, tt.total))
	}
}

func TestCourseProgressMergesBeforeUpsert(t *testing.T) {
	progress := newMemProgress()
	u := NewCourseUsecase(testLogger(), progress, &memCertifications{}).(*courseUsecase)
	u.now = fixedClock(matchTime)
	ctx := context.Background()
	userID := uuid.New()

	_, err := u.UpdateWatchTime(ctx, userID, &dto.CourseProgressRequest{VideoID: "v1", CourseType: "basics", LessonNumber: 1, WatchedSeconds: 120})
	require.NoError(t, err)

	watched, err := u.IsVideoWatched(ctx, userID, "v1")
	require.NoError(t, err)
	assert.False(t, watched)

	res, err := u.MarkVideoWatched(ctx, userID, &dto.CourseProgressRequest{VideoID: "v1", CourseType: "basics"})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 120, res.WatchedSeconds)
	assert.Equal(t, 1, res.LessonNumber)
	require.NotNil(t, res.CompletedAt)
	assert.Equal(t, matchTime, *res.CompletedAt)

	// A later watch-time update does not undo completion.
	res, err = u.UpdateWatchTime(ctx, userID, &dto.CourseProgressRequest{VideoID: "v1", CourseType: "basics", WatchedSeconds: 30})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 30, res.WatchedSeconds)

	_, err = u.UpdateWatchTime(ctx, userID, &dto.CourseProgressRequest{VideoID: "v2", CourseType: "basics", LessonNumber: 2, WatchedSeconds: 45})
	require.NoError(t, err)

	summary, err := u.GetProgress(ctx, userID, "basics", 4)
	require.NoError(t, err)
	assert.Len(t, summary.Lessons, 2)
	assert.Equal(t, 1, summary.CompletedLessons)
	assert.Equal(t, 4, summary.TotalLessons)
	assert.Equal(t, 25, summary.CompletionPercent)
	assert.Equal(t, 75, summary.WatchedSeconds)
}

func TestCertifications(t *testing.T) {
	userID := uuid.New()
	certs := &memCertifications{items: []entity.Certification{
		{ID: uuid.New(), UserID: userID, CertificationType: "basic", Passed: true},
		{ID: uuid.New(), UserID: uuid.New(), CertificationType: "advanced", Passed: true},
	}}
	u := NewCourseUsecase(testLogger(), newMemProgress(), certs)
	ctx := context.Background()

	list, err := u.GetCertifications(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "basic", list[0].CertificationType)

	has, err := u.HasCertification(ctx, userID, "basic")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = u.HasCertification(ctx, userID, "advanced")
	require.NoError(t, err)
	assert.False(t, has)
}
