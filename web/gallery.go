package web

import (
	"net/http"
	"strconv"

	"artfolio/db"
	"artfolio/handlers"
	"artfolio/models"

	"github.com/gin-gonic/gin"
)

// GalleryView is the public portfolio page: /w/g/:user/:slug/
// Private and missing galleries both come back as 404.
func GalleryView(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "no such gallery"})
		return
	}
	gallery, err := models.GalleryBySlug(userID, c.Param("slug"))
	if err != nil || !gallery.Public {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "no such gallery"})
		return
	}
	owner := models.User{ID: gallery.UserID}
	_ = db.Instance.First(&owner).Error

	models.RecordPageView(gallery.ID, c.Request.URL.Path, c.Request.Referer())

	items := []handlers.ItemInfo{}
	for i := range gallery.Items {
		items = append(items, handlers.NewItemInfo(&gallery.Items[i]))
	}
	var featured uint64
	if gallery.FeaturedItemID != nil {
		featured = *gallery.FeaturedItemID
	}
	json := gin.H{
		"ownerName":      owner.Name,
		"ownerAvatar":    owner.AvatarURL,
		"ownerBanner":    owner.BannerURL,
		"name":           gallery.Name,
		"description":    gallery.Description,
		"items":          items,
		"featuredItemId": featured,
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, json)
		return
	}
	c.HTML(http.StatusOK, "gallery_view.tmpl", json)
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}
