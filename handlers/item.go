package handlers

import (
	"net/http"

	"artfolio/db"
	"artfolio/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ItemSaveRequest struct {
	ItemID      uint64  `form:"item_id" binding:"required"`
	Title       string  `form:"title"`
	Description *string `form:"description"`
	AltText     *string `form:"altText"`
	Tags        *string `form:"tags"`
	ArtistName  *string `form:"artistName"`
	ArtistLink  *string `form:"artistLink"`
}

type ItemIDRequest struct {
	ItemID uint64 `form:"item_id" binding:"required"`
}

// loadOwnItem fetches the item only when its gallery belongs to the user
func loadOwnItem(itemID, userID uint64) (item models.GalleryItem, err error) {
	err = db.Instance.
		Joins("join galleries on galleries.id = gallery_items.gallery_id").
		Where("gallery_items.id = ? AND galleries.user_id = ?", itemID, userID).
		First(&item).Error
	return
}

func ItemSave(c *gin.Context, user *models.User) {
	r := ItemSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	item, err := loadOwnItem(r.ItemID, user.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if r.Title != "" {
		item.Title = r.Title
	}
	if r.Description != nil {
		item.Description = *r.Description
	}
	if r.AltText != nil {
		item.AltText = *r.AltText
	}
	if r.Tags != nil {
		item.Tags = models.NormalizeTags(*r.Tags)
	}
	if r.ArtistName != nil {
		item.ArtistName = *r.ArtistName
	}
	if r.ArtistLink != nil {
		item.ArtistLink = *r.ArtistLink
	}
	if err = db.Instance.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, NewItemInfo(&item))
}

func ItemDelete(c *gin.Context, user *models.User) {
	r := ItemIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	item, err := loadOwnItem(r.ItemID, user.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	// A featured item stops being featured when it goes away
	db.Instance.Model(&models.Gallery{}).
		Where("id = ? AND featured_item_id = ?", item.GalleryID, item.ID).
		Update("featured_item_id", nil)
	if err = db.Instance.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	deleteItemObjects(&item)
	c.JSON(http.StatusOK, OKResponse)
}
