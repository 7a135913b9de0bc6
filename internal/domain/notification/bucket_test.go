package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		days int
		want Bucket
	}{
		{-5, BucketNone},
		{-1, BucketNone},
		{0, BucketExpired},
		{1, BucketNone},
		{2, BucketExpiringIn3},
		{3, BucketExpiringIn3},
		{4, BucketExpiringIn3},
		{5, BucketNone},
		{6, BucketExpiringIn7},
		{7, BucketExpiringIn7},
		{8, BucketExpiringIn7},
		{9, BucketNone},
		{30, BucketNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.days), "days=%d", tt.days)
	}
}

func TestBucket_Category(t *testing.T) {
	c, ok := BucketExpiringIn3.Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryExpiringSoon, c)

	c, ok = BucketExpiringIn7.Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryExpiringSoon, c)

	c, ok = BucketExpired.Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryExpired, c)

	c, ok = BucketWelcome.Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryWelcome, c)

	_, ok = BucketNone.Category()
	assert.False(t, ok)
	assert.False(t, BucketNone.IsNotifiable())
}

func TestClassify_ToleratesTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, loc)

	tests := []struct {
		name     string
		end      time.Time
		wantDays int
		want     Bucket
	}{
		{"ends later today", time.Date(2024, 3, 15, 23, 0, 0, 0, loc), 0, BucketExpired},
		{"ends early in three days", time.Date(2024, 3, 18, 0, 30, 0, 0, loc), 3, BucketExpiringIn3},
		{"ends late in seven days", time.Date(2024, 3, 22, 22, 0, 0, 0, loc), 7, BucketExpiringIn7},
		{"stored in UTC next day", time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC), 0, BucketExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, days := Classify(tt.end, now, loc)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.want, bucket)
		})
	}
}

func TestNewAttempt(t *testing.T) {
	at := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+3", 3*3600)

	sent := NewAttempt(uuid.New(), uuid.New(), nil, BucketExpiringIn7, at, loc, "hello", nil)
	assert.Equal(t, OutcomeSent, sent.Outcome)
	assert.Equal(t, CategoryExpiringSoon, sent.Category)
	assert.Equal(t, "2024-03-16", sent.SentDate)
	assert.True(t, sent.Succeeded())

	failed := NewAttempt(uuid.New(), uuid.New(), nil, BucketExpired, at, loc, "hello", errors.New("chat not found"))
	assert.Equal(t, OutcomeFailed, failed.Outcome)
	assert.Equal(t, "chat not found", failed.Error)
	assert.False(t, failed.Succeeded())
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer(map[Bucket]string{
		BucketExpired: "{{.MemberName}} @ {{.GymName}}: {{.EndDate}}",
	})
	require.NoError(t, err)

	data := NewTemplateData("Lucia", "Crossfit", "Iron Temple", time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC), 3, time.UTC)

	text, err := r.Render(BucketExpired, data)
	require.NoError(t, err)
	assert.Equal(t, "Lucia @ Iron Temple: 18/03/2024", text)

	text, err = r.Render(BucketExpiringIn3, data)
	require.NoError(t, err)
	assert.Contains(t, text, "3 days left")
	assert.Contains(t, text, "Crossfit")

	_, err = r.Render(BucketNone, data)
	assert.Error(t, err)
}

func TestNewTemplateData_MemberName(t *testing.T) {
	assert.Equal(t, "Lucia Paz", NewTemplateData("lucia paz", "", "", time.Time{}, 0, nil).MemberName)
	assert.Equal(t, "Ian McKay", NewTemplateData("ian McKay", "", "", time.Time{}, 0, nil).MemberName)
	assert.Empty(t, NewTemplateData("", "", "", time.Time{}, 0, nil).EndDate)
}

func TestNewRenderer_InvalidTemplate(t *testing.T) {
	_, err := NewRenderer(map[Bucket]string{BucketWelcome: "{{.MemberName"})
	assert.Error(t, err)
}
