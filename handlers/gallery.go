package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"artfolio/db"
	"artfolio/models"
	"artfolio/storage"
	"artfolio/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GalleryCreateRequest struct {
	Name        string `form:"name" binding:"required"`
	Slug        string `form:"slug"`
	Description string `form:"description"`
	IsPublic    string `form:"isPublic"`
}

type GallerySaveRequest struct {
	GalleryID      uint64  `form:"gallery_id" binding:"required"`
	Name           string  `form:"name"`
	Slug           string  `form:"slug"`
	Description    *string `form:"description"`
	IsPublic       string  `form:"isPublic"`
	FeaturedItemID *uint64 `form:"featured_item_id"`
}

type GalleryIDRequest struct {
	GalleryID uint64 `form:"gallery_id" binding:"required"`
}

func GalleryList(c *gin.Context, user *models.User) {
	rows, err := db.Instance.
		Table("galleries").
		Select("galleries.id, galleries.slug, galleries.name, galleries.description, galleries.public, galleries.featured_item_id, count(gallery_items.id)").
		Joins("left join gallery_items on gallery_items.gallery_id = galleries.id").
		Where("galleries.user_id = ?", user.ID).
		Group("galleries.id, galleries.slug, galleries.name, galleries.description, galleries.public, galleries.featured_item_id").
		Order("galleries.created_at DESC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []GalleryInfo{}
	for rows.Next() {
		info := GalleryInfo{}
		featured := sql.NullInt64{}
		if err = rows.Scan(&info.ID, &info.Slug, &info.Name, &info.Description, &info.Public, &featured, &info.ItemCount); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		if featured.Valid {
			info.FeaturedItemID = uint64(featured.Int64)
		}
		result = append(result, info)
	}
	c.JSON(http.StatusOK, result)
}

func GalleryCreate(c *gin.Context, user *models.User) {
	r := GalleryCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	public := r.IsPublic != "false"
	var gallery models.Gallery
	var err error
	if r.Slug != "" {
		gallery = models.Gallery{
			UserID:      user.ID,
			Slug:        utils.Slugify(r.Slug),
			Name:        r.Name,
			Description: r.Description,
			Public:      public,
		}
		if err = db.Instance.Create(&gallery).Error; err != nil {
			c.JSON(http.StatusBadRequest, Response{"slug already in use"})
			return
		}
	} else {
		gallery, err = models.GalleryCreateNew(user.ID, r.Name, public)
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		if r.Description != "" {
			gallery.Description = r.Description
			db.Instance.Save(&gallery)
		}
	}
	c.JSON(http.StatusOK, NewGalleryInfo(&gallery))
}

func GallerySave(c *gin.Context, user *models.User) {
	r := GallerySaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	gallery := models.Gallery{}
	if db.Instance.First(&gallery, "id = ? AND user_id = ?", r.GalleryID, user.ID).Error != nil {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if r.Name != "" {
		gallery.Name = r.Name
	}
	if r.Slug != "" {
		gallery.Slug = utils.Slugify(r.Slug)
	}
	if r.Description != nil {
		gallery.Description = *r.Description
	}
	if r.IsPublic != "" {
		gallery.Public = r.IsPublic != "false"
	}
	if r.FeaturedItemID != nil {
		// Only items of this gallery can be featured
		var count int64
		db.Instance.Model(&models.GalleryItem{}).
			Where("id = ? AND gallery_id = ?", *r.FeaturedItemID, gallery.ID).
			Count(&count)
		if count != 1 {
			c.JSON(http.StatusBadRequest, Response{"item is not part of this gallery"})
			return
		}
		gallery.FeaturedItemID = r.FeaturedItemID
	}
	if err := db.Instance.Save(&gallery).Error; err != nil {
		c.JSON(http.StatusBadRequest, Response{"slug already in use"})
		return
	}
	c.JSON(http.StatusOK, NewGalleryInfo(&gallery))
}

// GalleryDelete removes the gallery, its item rows (DB cascade) and its
// stored objects (best-effort)
func GalleryDelete(c *gin.Context, user *models.User) {
	r := GalleryIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	gallery := models.Gallery{}
	if db.Instance.Preload("Items").First(&gallery, "id = ? AND user_id = ?", r.GalleryID, user.ID).Error != nil {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err := db.Instance.Select("Items").Delete(&gallery).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	for i := range gallery.Items {
		deleteItemObjects(&gallery.Items[i])
	}
	c.JSON(http.StatusOK, OKResponse)
}

func GalleryItems(c *gin.Context, user *models.User) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, Response{"slug is required"})
		return
	}
	gallery, err := models.GalleryBySlug(user.ID, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{"no such gallery"})
		return
	}
	result := []ItemInfo{}
	for i := range gallery.Items {
		result = append(result, NewItemInfo(&gallery.Items[i]))
	}
	c.JSON(http.StatusOK, result)
}

func deleteItemObjects(item *models.GalleryItem) {
	if item.StoragePath == "" {
		return
	}
	stor := storage.StorageFrom(&storage.Bucket{ID: item.BucketID})
	if stor == nil {
		return
	}
	if err := stor.Delete(item.StoragePath); err != nil {
		log.Printf("could not delete object %s: %v", item.StoragePath, err)
	}
	if item.ThumbURL != "" {
		thumbPath := thumbPathFor(item.StoragePath)
		if err := stor.Delete(thumbPath); err != nil {
			log.Printf("could not delete thumb %s: %v", thumbPath, err)
		}
	}
}
