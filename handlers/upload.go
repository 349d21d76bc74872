package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"artfolio/config"
	"artfolio/db"
	"artfolio/mail"
	"artfolio/models"
	"artfolio/processing"
	"artfolio/storage"
	"artfolio/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Gallery uploads accept up to 20 MiB. The profile/banner path in
	// user.go advertises 10 MB - the two limits are intentionally kept
	// as separate constants, see DESIGN.md.
	maxUploadSize = 20 << 20

	thumbSize = 1280
)

var (
	ErrNoFile    = errors.New("no file provided")
	ErrNotImage  = errors.New("only image uploads are accepted")
	ErrTooLarge  = errors.New("file exceeds the upload size limit")
	ErrStorage   = errors.New("could not store the file")
	ErrGalleryDB = errors.New("could not resolve the gallery")
	ErrItemDB    = errors.New("could not record the upload")
)

// UploadSideEffects carries the non-fatal outcomes of an upload: the
// HEIC conversion attempt and the operator alert email. They never
// change the primary result but tests assert on them independently.
type UploadSideEffects struct {
	Normalize processing.Result
	AlertSent bool
	AlertErr  error
}

// UploadMeta is everything from the multipart form except the file itself
type UploadMeta struct {
	Title       string
	Description string
	AltText     string
	Tags        string
	ArtistName  string
	ArtistLink  string
	GalleryName string
	GallerySlug string
	Public      bool
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrNotImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// GalleryUpload is the artwork upload endpoint:
// validate -> resolve gallery -> normalize -> persist -> record.
func (api *API) GalleryUpload(c *gin.Context, user *models.User) {
	requestID := uuid.NewString()
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrNoFile.Error(), "requestId": requestID})
		return
	}
	meta := UploadMeta{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		AltText:     c.PostForm("altText"),
		Tags:        c.PostForm("tags"),
		ArtistName:  c.PostForm("artistName"),
		ArtistLink:  c.PostForm("artistLink"),
		GalleryName: c.PostForm("galleryName"),
		GallerySlug: c.PostForm("gallerySlug"),
		Public:      c.PostForm("isPublic") != "false",
	}
	gallery, item, fx, err := api.processUpload(user, file, meta)
	if fx.AlertErr != nil {
		log.Printf("storage alert email not sent: %v", fx.AlertErr)
	}
	if err != nil {
		c.JSON(uploadStatus(err), gin.H{"error": err.Error(), "requestId": requestID})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"gallery":   NewGalleryInfo(gallery),
		"item":      NewItemInfo(item),
		"requestId": requestID,
	})
}

// processUpload runs the linear upload pipeline. There are no retries:
// a failed request has to be resubmitted in full.
func (api *API) processUpload(user *models.User, file *multipart.FileHeader, meta UploadMeta) (*models.Gallery, *models.GalleryItem, UploadSideEffects, error) {
	fx := UploadSideEffects{}

	// Validation uses the client-declared metadata only
	mimeType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil, fx, ErrNotImage
	}
	if file.Size > maxUploadSize {
		return nil, nil, fx, ErrTooLarge
	}

	// An explicit slug (or the default) targets a gallery and reuses it;
	// a bare name always creates a new gallery
	var gallery models.Gallery
	var err error
	switch {
	case meta.GallerySlug != "":
		gallery, err = models.GalleryFindOrCreate(user.ID, meta.GallerySlug, meta.GalleryName, meta.Public)
	case meta.GalleryName != "":
		gallery, err = models.GalleryCreateNew(user.ID, meta.GalleryName, meta.Public)
	default:
		gallery, err = models.GalleryFindOrCreate(user.ID, utils.DefaultSlug, "", meta.Public)
	}
	if err != nil {
		log.Printf("gallery resolution failed for user %d: %v", user.ID, err)
		return nil, nil, fx, ErrGalleryDB
	}

	reader, err := file.Open()
	if err != nil {
		return nil, nil, fx, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return nil, nil, fx, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	fileName := file.Filename
	data, fileName, mimeType, fx.Normalize = processing.NormalizeImage(fileName, mimeType, data)

	stor := userStorage(user)
	if stor == nil {
		return nil, nil, fx, ErrStorage
	}
	key := objectKey(user.ID, fileName)
	if _, err = stor.SaveNew(key, mimeType, bytes.NewReader(data)); err != nil {
		log.Printf("object store rejected %s: %v", key, err)
		fx.AlertErr = api.sendStorageAlert(user, key, err)
		fx.AlertSent = fx.AlertErr == nil
		return nil, nil, fx, ErrStorage
	}

	item := models.GalleryItem{
		GalleryID:   gallery.ID,
		Title:       meta.Title,
		ImageURL:    stor.PublicURL(key),
		Description: meta.Description,
		AltText:     meta.AltText,
		Tags:        models.NormalizeTags(meta.Tags),
		ArtistName:  meta.ArtistName,
		ArtistLink:  meta.ArtistLink,
		Size:        int64(len(data)),
		MimeType:    mimeType,
		StoragePath: key,
		BucketID:    stor.GetBucket().ID,
	}
	if item.Title == "" {
		item.Title = models.TitleFromFilename(file.Filename)
	}

	// Thumbnail is best-effort, the full image remains the fallback
	var thumb bytes.Buffer
	if ti, err := utils.CreateThumb(thumbSize, bytes.NewReader(data), &thumb); err == nil {
		thumbKey := thumbPathFor(key)
		if _, err = stor.Save(thumbKey, &thumb); err == nil {
			item.ThumbURL = stor.PublicURL(thumbKey)
		}
		item.Width = ti.OldX
		item.Height = ti.OldY
	}

	if err = db.Instance.Create(&item).Error; err != nil {
		// The object is already stored; an orphaned object is accepted,
		// a dangling row is not
		log.Printf("item row not created for %s: %v", key, err)
		return nil, nil, fx, ErrItemDB
	}
	return &gallery, &item, fx, nil
}

func userStorage(user *models.User) storage.StorageAPI {
	if user.BucketID != nil {
		if s := storage.StorageFrom(&user.Bucket); s != nil {
			return s
		}
	}
	return storage.GetDefaultStorage()
}

// thumbPathFor derives the thumbnail key next to the object key
func thumbPathFor(key string) string {
	return strings.TrimSuffix(key, filepath.Ext(key)) + "_thumb.jpg"
}

// objectKey builds users/{ownerId}/{timestamp}-{randomSuffix}{.ext}
func objectKey(userID uint64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return "users/" + strconv.FormatUint(userID, 10) + "/" +
		strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + uuid.NewString() + ext
}

// sendStorageAlert emails the operator about a failed persist. Failures
// here are swallowed: they are logged and reported via UploadSideEffects,
// never to the uploading client.
func (api *API) sendStorageAlert(user *models.User, key string, cause error) error {
	if config.ALERT_EMAIL == "" {
		return mail.ErrDisabled
	}
	return api.Mail.Send(
		config.ALERT_EMAIL,
		"Artfolio: storage failure",
		fmt.Sprintf("Upload by user %d (%s) could not be stored.\nKey: %s\nError: %v\n", user.ID, user.Email, key, cause),
	)
}
