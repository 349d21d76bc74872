package models

import (
	"testing"
	"time"

	"artfolio/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewSummary(t *testing.T) {
	setupTestDB(t)
	user := testUser(t, "artist@example.com")

	popular, err := GalleryFindOrCreate(user.ID, "popular", "", true)
	require.NoError(t, err)
	quiet, err := GalleryFindOrCreate(user.ID, "quiet", "", true)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		RecordPageView(popular.ID, "/w/g/1/popular/", "https://search.example.com")
	}
	RecordPageView(quiet.ID, "/w/g/1/quiet/", "")

	// Views outside the window are not counted
	old := PageView{GalleryID: quiet.ID, Path: "/w/g/1/quiet/"}
	require.NoError(t, db.Instance.Create(&old).Error)
	stale := time.Now().AddDate(0, 0, -45).Unix()
	require.NoError(t, db.Instance.Model(&old).Update("created_at", stale).Error)

	summary, err := ViewSummary(30)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, popular.ID, summary[0].GalleryID)
	assert.EqualValues(t, 3, summary[0].Views)
	assert.Equal(t, "popular", summary[0].Slug)
	assert.EqualValues(t, 1, summary[1].Views)
}
