// AngelaMos | 2026
// policy_test.go

package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

func TestPlanUploadBuildsNamespacedKey(t *testing.T) {
	now := time.UnixMilli(1735689600123)

	obj, err := PlanUpload(UploadRequest{
		FileName:    "Lesson 1: Beat Juggling (final).mp4",
		ContentType: "video/mp4",
		Size:        200 * MiB,
		Purpose:     PurposeVideo,
		UserID:      "user-1",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "videos/user-1/1735689600123-Lesson_1__Beat_Juggling__final_.mp4", obj.Key)
	assert.Equal(t, "video/mp4", obj.ContentType)
	assert.Equal(t, 200*MiB, obj.Size)
	assert.True(t, strings.HasPrefix(obj.Key, PurposeVideo.KeyPrefix("user-1")))
}

func TestPlanUploadRejectsWrongType(t *testing.T) {
	_, err := PlanUpload(UploadRequest{
		FileName:    "cover.gif",
		ContentType: "image/gif",
		Size:        MiB,
		Purpose:     PurposeThumbnail,
		UserID:      "user-1",
	}, time.Now())

	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Invalid file type. Allowed types: image/jpeg, image/png, image/webp")
}

func TestPlanUploadRejectsOversize(t *testing.T) {
	tests := []struct {
		purpose Purpose
		size    int64
		message string
	}{
		{PurposeVideo, 5*GiB + 1, "Maximum size: 5120MB"},
		{PurposePreview, 500*MiB + 1, "Maximum size: 500MB"},
		{PurposeThumbnail, 10*MiB + 1, "Maximum size: 10MB"},
	}

	for _, tt := range tests {
		t.Run(string(tt.purpose), func(t *testing.T) {
			_, err := PlanUpload(UploadRequest{
				FileName:    "f",
				ContentType: tt.purpose.AllowedTypes()[0],
				Size:        tt.size,
				Purpose:     tt.purpose,
				UserID:      "user-1",
			}, time.Now())

			require.ErrorIs(t, err, core.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestPlanUploadRejectsEmptySize(t *testing.T) {
	for _, size := range []int64{0, -1} {
		_, err := PlanUpload(UploadRequest{
			FileName:    "lesson.mp4",
			ContentType: "video/mp4",
			Size:        size,
			Purpose:     PurposeVideo,
			UserID:      "user-1",
		}, time.Now())

		require.ErrorIs(t, err, core.ErrInvalidInput)
		assert.Equal(t, "File size must be positive", err.Error())
	}
}

func TestPlanUploadAcceptsLimit(t *testing.T) {
	_, err := PlanUpload(UploadRequest{
		FileName:    "preview.webm",
		ContentType: "video/webm",
		Size:        500 * MiB,
		Purpose:     PurposePreview,
		UserID:      "user-1",
	}, time.Now())
	assert.NoError(t, err)
}

func TestParsePurpose(t *testing.T) {
	p, err := ParsePurpose("thumbnail")
	require.NoError(t, err)
	assert.Equal(t, PurposeThumbnail, p)

	_, err = ParsePurpose("audio")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
