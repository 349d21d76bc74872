package handlers

import (
	"net/http"
	"strings"

	"artfolio/config"
	"artfolio/db"
	"artfolio/models"
	"artfolio/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AdminStats struct {
	Users       int64 `json:"users"`
	Galleries   int64 `json:"galleries"`
	Items       int64 `json:"items"`
	StoredBytes int64 `json:"storedBytes"`
	Views       int64 `json:"views"`
}

func AdminGetStats(c *gin.Context, user *models.User) {
	stats := AdminStats{}
	db.Instance.Model(&models.User{}).Count(&stats.Users)
	db.Instance.Model(&models.Gallery{}).Count(&stats.Galleries)
	db.Instance.Model(&models.GalleryItem{}).Count(&stats.Items)
	db.Instance.Model(&models.PageView{}).Count(&stats.Views)
	if err := db.Instance.Raw("select ifnull(sum(size), 0) from gallery_items").Scan(&stats.StoredBytes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type UserUsage struct {
	UserInfo
	UsedBytes int64 `json:"usedBytes"`
}

func AdminGetUsage(c *gin.Context, user *models.User) {
	rows, err := db.Instance.
		Table("users").
		Select("users.id, users.name, users.email, ifnull(sum(gallery_items.size), 0)").
		Joins("left join galleries on galleries.user_id = users.id").
		Joins("left join gallery_items on gallery_items.gallery_id = galleries.id").
		Group("users.id, users.name, users.email").
		Order("users.created_at DESC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []UserUsage{}
	for rows.Next() {
		usage := UserUsage{}
		if err = rows.Scan(&usage.ID, &usage.Name, &usage.Email, &usage.UsedBytes); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		result = append(result, usage)
	}
	c.JSON(http.StatusOK, result)
}

// AdminGetViews summarizes public gallery page views per gallery
func AdminGetViews(c *gin.Context, user *models.User) {
	summary, err := models.ViewSummary(config.ANALYTICS_DAYS)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func BucketList(c *gin.Context, user *models.User) {
	buckets := []storage.Bucket{}
	if db.Instance.Find(&buckets).Error != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	// Never hand out credentials
	for i := range buckets {
		buckets[i].AuthDetails = ""
	}
	c.JSON(http.StatusOK, buckets)
}

func cleanupPath(in *storage.Bucket) {
	for strings.Contains(in.Path, "..") {
		in.Path = strings.ReplaceAll(in.Path, "..", "")
	}
	for strings.Contains(in.Path, "//") {
		in.Path = strings.ReplaceAll(in.Path, "//", "/")
	}
}

func BucketSave(c *gin.Context, user *models.User) {
	bucket := storage.Bucket{}
	if err := c.ShouldBindWith(&bucket, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	cleanupPath(&bucket)
	if bucket.Name == "" {
		c.JSON(http.StatusBadRequest, Response{"Empty bucket name"})
		return
	}
	if bucket.StorageType == storage.StorageTypeFile {
		if bucket.Path == "" || bucket.Path[0] != '/' {
			c.JSON(http.StatusBadRequest, Response{"Path must be absolute and start with / (slash)"})
			return
		}
	} else if bucket.StorageType == storage.StorageTypeS3 {
		if bucket.AuthDetails == "" || !strings.Contains(bucket.AuthDetails, ":") {
			c.JSON(http.StatusBadRequest, Response{"S3 credentials must be provided as key:secret"})
			return
		}
		if bucket.Region == "" {
			bucket.Region = "us-east-1"
		}
	} else {
		c.JSON(http.StatusBadRequest, Response{"'type' must be one of 'file' or 's3'"})
		return
	}
	if bucket.ID == 0 {
		if err := bucket.Create(); err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		storage.Register(&bucket)
	} else {
		if err := db.Instance.Save(&bucket).Error; err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		// Pick up changed credentials/endpoints
		storage.Init()
	}
	c.JSON(http.StatusOK, OKResponse)
}
