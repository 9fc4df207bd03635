package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nanohana/tsuzuri/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestIsViewable(t *testing.T) {
	diary := testDiary()
	end := diary.ViewEndTime()
	t.Run("inside the window", func(t *testing.T) {
		assert.True(t, service.IsViewable(&diary, end.Add(-time.Second)))
	})
	t.Run("exactly at the window end", func(t *testing.T) {
		assert.True(t, service.IsViewable(&diary, end))
	})
	t.Run("past the window", func(t *testing.T) {
		assert.False(t, service.IsViewable(&diary, end.Add(time.Second)))
	})
	t.Run("non-UTC instants compare equally", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		assert.True(t, service.IsViewable(&diary, end.In(jst)))
		assert.False(t, service.IsViewable(&diary, end.Add(time.Second).In(jst)))
	})
}

func TestCanView(t *testing.T) {
	diary := testDiary()
	afterEnd := diary.ViewEndTime().Add(time.Minute)
	t.Run("owner views past the window", func(t *testing.T) {
		assert.True(t, service.CanView(&diary, diary.UserID, afterEnd))
	})
	t.Run("stranger inside the window", func(t *testing.T) {
		assert.True(t, service.CanView(&diary, uuid.New(), diary.CreatedAt))
	})
	t.Run("stranger past the window", func(t *testing.T) {
		assert.False(t, service.CanView(&diary, uuid.New(), afterEnd))
	})
}

func TestShouldCountView(t *testing.T) {
	diary := testDiary()
	assert.False(t, service.ShouldCountView(&diary, diary.UserID))
	assert.True(t, service.ShouldCountView(&diary, uuid.New()))
}
