package models

import (
	"log"
	"time"

	"artfolio/db"
)

type PageView struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"index"`
	GalleryID uint64 `gorm:"not null;index"`
	Gallery   Gallery `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Path      string  `gorm:"type:varchar(500)"`
	Referrer  string  `gorm:"type:varchar(500)"`
}

// RecordPageView is best-effort; a failed insert only gets logged
func RecordPageView(galleryID uint64, path, referrer string) {
	view := PageView{
		GalleryID: galleryID,
		Path:      path,
		Referrer:  referrer,
	}
	if err := db.Instance.Create(&view).Error; err != nil {
		log.Printf("page view not recorded for gallery %d: %v", galleryID, err)
	}
}

type GalleryViews struct {
	GalleryID uint64 `json:"gallery_id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Views     int64  `json:"views"`
}

// ViewSummary returns per-gallery view counts over the last `days` days
func ViewSummary(days int) ([]GalleryViews, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	rows, err := db.Instance.
		Table("page_views").
		Select("page_views.gallery_id, galleries.slug, galleries.name, count(*)").
		Joins("join galleries on galleries.id = page_views.gallery_id").
		Where("page_views.created_at >= ?", cutoff).
		Group("page_views.gallery_id, galleries.slug, galleries.name").
		Order("count(*) DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []GalleryViews{}
	for rows.Next() {
		var gv GalleryViews
		if err = rows.Scan(&gv.GalleryID, &gv.Slug, &gv.Name, &gv.Views); err != nil {
			return nil, err
		}
		result = append(result, gv)
	}
	return result, nil
}
