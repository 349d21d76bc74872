package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"artfolio/config"
	"artfolio/db"
	"artfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryCreateExplicitSlug(t *testing.T) {
	setupTest(t)
	user := testUser(t, "artist@example.com")

	c, rec := formContext(t, url.Values{"name": {"Ink Work"}, "slug": {"Ink Work!!"}})
	GalleryCreate(c, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var info GalleryInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "ink-work", info.Slug)
	assert.Equal(t, "Ink Work", info.Name)

	// An explicit slug is a claim, a collision is the caller's problem
	c, rec = formContext(t, url.Values{"name": {"Other"}, "slug": {"ink-work"}})
	GalleryCreate(c, user)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "slug already in use")
}

func TestGalleryCreateWithoutSlugPicksFree(t *testing.T) {
	setupTest(t)
	user := testUser(t, "artist@example.com")

	for i, want := range []string{"ink-work", "ink-work-1"} {
		c, rec := formContext(t, url.Values{"name": {"Ink Work"}})
		GalleryCreate(c, user)
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d: %s", i, rec.Body.String())
		var info GalleryInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, want, info.Slug)
	}
}

func TestGalleryListReportsFeaturedItem(t *testing.T) {
	setupTest(t)
	user := testUser(t, "artist@example.com")

	gallery, err := models.GalleryFindOrCreate(user.ID, "work", "", true)
	require.NoError(t, err)
	item := models.GalleryItem{GalleryID: gallery.ID, Title: "piece", ImageURL: "u"}
	require.NoError(t, db.Instance.Create(&item).Error)
	require.NoError(t, db.Instance.Model(&gallery).Update("featured_item_id", item.ID).Error)

	// A gallery with no featured item comes back as 0
	_, err = models.GalleryFindOrCreate(user.ID, "sketches", "", true)
	require.NoError(t, err)

	c, rec := formContext(t, url.Values{})
	GalleryList(c, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var infos []GalleryInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	bySlug := map[string]GalleryInfo{}
	for _, info := range infos {
		bySlug[info.Slug] = info
	}
	assert.Equal(t, item.ID, bySlug["work"].FeaturedItemID)
	assert.EqualValues(t, 1, bySlug["work"].ItemCount)
	assert.Zero(t, bySlug["sketches"].FeaturedItemID)
}

func TestGallerySaveOwnershipAndFeatured(t *testing.T) {
	setupTest(t)
	owner := testUser(t, "owner@example.com")
	other := testUser(t, "other@example.com")

	gallery, err := models.GalleryFindOrCreate(owner.ID, "work", "", true)
	require.NoError(t, err)
	item := models.GalleryItem{GalleryID: gallery.ID, Title: "piece", ImageURL: "u"}
	require.NoError(t, db.Instance.Create(&item).Error)

	galleryID := strconv.FormatUint(gallery.ID, 10)

	// Someone else's gallery is off limits
	c, rec := formContext(t, url.Values{"gallery_id": {galleryID}, "name": {"Stolen"}})
	GallerySave(c, other)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Featuring an item that is not in the gallery is rejected
	c, rec = formContext(t, url.Values{"gallery_id": {galleryID}, "featured_item_id": {"99999"}})
	GallerySave(c, owner)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = formContext(t, url.Values{
		"gallery_id":       {galleryID},
		"name":             {"Renamed"},
		"isPublic":         {"false"},
		"featured_item_id": {strconv.FormatUint(item.ID, 10)},
	})
	GallerySave(c, owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var info GalleryInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Renamed", info.Name)
	assert.False(t, info.Public)
	assert.Equal(t, item.ID, info.FeaturedItemID)
}

func TestGalleryDeleteRemovesRowsAndObjects(t *testing.T) {
	api := setupTest(t)
	user := testUser(t, "artist@example.com")

	fh := createFileHeader(t, "cat.png", "image/png", pngBytes(t))
	gallery, item, _, err := api.processUpload(user, fh, UploadMeta{GalleryName: "Doomed", Public: true})
	require.NoError(t, err)

	onDisk := filepath.Join(config.DEFAULT_BUCKET_DIR, item.StoragePath)
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	c, rec := formContext(t, url.Values{"gallery_id": {strconv.FormatUint(gallery.ID, 10)}})
	GalleryDelete(c, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.EqualValues(t, 0, itemCount(t))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestGalleryItemsBySlug(t *testing.T) {
	api := setupTest(t)
	user := testUser(t, "artist@example.com")

	fh := createFileHeader(t, "cat.png", "image/png", pngBytes(t))
	_, _, _, err := api.processUpload(user, fh, UploadMeta{GallerySlug: "work", Public: true})
	require.NoError(t, err)

	c, rec := formContext(t, url.Values{})
	c.Request.URL.RawQuery = "slug=work"
	GalleryItems(c, user)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []ItemInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "cat", items[0].Title)

	c, rec = formContext(t, url.Values{})
	c.Request.URL.RawQuery = "slug=missing"
	GalleryItems(c, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemSaveAndDelete(t *testing.T) {
	api := setupTest(t)
	user := testUser(t, "artist@example.com")
	other := testUser(t, "other@example.com")

	fh := createFileHeader(t, "cat.png", "image/png", pngBytes(t))
	gallery, item, _, err := api.processUpload(user, fh, UploadMeta{GallerySlug: "work", Public: true})
	require.NoError(t, err)
	itemID := strconv.FormatUint(item.ID, 10)

	c, rec := formContext(t, url.Values{"item_id": {itemID}, "title": {"Hijack"}})
	ItemSave(c, other)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = formContext(t, url.Values{
		"item_id": {itemID},
		"title":   {"Night Sketch"},
		"tags":    {"ink, night"},
	})
	ItemSave(c, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var info ItemInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Night Sketch", info.Title)
	assert.Equal(t, []string{"ink", "night"}, info.Tags)

	// Deleting a featured item clears the gallery's pointer
	require.NoError(t, db.Instance.Model(&models.Gallery{}).
		Where("id = ?", gallery.ID).Update("featured_item_id", item.ID).Error)

	c, rec = formContext(t, url.Values{"item_id": {itemID}})
	ItemDelete(c, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 0, itemCount(t))

	var reloaded models.Gallery
	require.NoError(t, db.Instance.First(&reloaded, gallery.ID).Error)
	assert.Nil(t, reloaded.FeaturedItemID)
}
