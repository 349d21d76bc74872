package models

import (
	"errors"
	"strconv"
	"strings"

	"artfolio/db"
	"artfolio/utils"

	"gorm.io/gorm"
)

const maxSlugAttempts = 100

var ErrSlugsExhausted = errors.New("could not find a free slug")

type Gallery struct {
	ID             uint64 `gorm:"primaryKey"`
	CreatedAt      int64
	UpdatedAt      int64
	UserID         uint64 `gorm:"not null;index:uniq_user_slug,unique,priority:1"`
	User           User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Slug           string `gorm:"type:varchar(200);not null;index:uniq_user_slug,unique,priority:2"`
	Name           string `gorm:"type:varchar(300)"`
	Description    string `gorm:"type:text"`
	Public         bool   `gorm:"not null"`
	FeaturedItemID *uint64
	Items          []GalleryItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// isDuplicateErr detects unique index violations. The message fallbacks
// cover drivers that predate GORM's error translation.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

// GalleryFindOrCreate returns the gallery at (owner, slug), creating it
// when missing. Uniqueness is enforced by the (user_id, slug) index: when
// a concurrent request wins the create, the winner's row is reused.
func GalleryFindOrCreate(userID uint64, slug, name string, public bool) (g Gallery, err error) {
	slug = utils.Slugify(slug)
	err = db.Instance.Where("user_id = ? AND slug = ?", userID, slug).First(&g).Error
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Gallery{}, err
	}
	if name == "" {
		name = utils.SlugToDisplayName(slug)
	}
	g = Gallery{
		UserID: userID,
		Slug:   slug,
		Name:   name,
		Public: public,
	}
	err = db.Instance.Create(&g).Error
	if err == nil {
		return g, nil
	}
	if isDuplicateErr(err) {
		err = db.Instance.Where("user_id = ? AND slug = ?", userID, slug).First(&g).Error
	}
	return g, err
}

// GalleryCreateNew always creates a fresh gallery for the given name,
// walking numeric suffixes (-1, -2, ...) past taken slugs. There is no
// pre-check: collisions surface as duplicate-key errors from the index.
func GalleryCreateNew(userID uint64, name string, public bool) (Gallery, error) {
	base := utils.Slugify(name)
	slug := base
	for i := 1; i <= maxSlugAttempts; i++ {
		g := Gallery{
			UserID: userID,
			Slug:   slug,
			Name:   name,
			Public: public,
		}
		err := db.Instance.Create(&g).Error
		if err == nil {
			return g, nil
		}
		if !isDuplicateErr(err) {
			return Gallery{}, err
		}
		slug = base + "-" + strconv.Itoa(i)
	}
	return Gallery{}, ErrSlugsExhausted
}

// GalleryBySlug loads a gallery with its items, newest first
func GalleryBySlug(userID uint64, slug string) (g Gallery, err error) {
	err = db.Instance.
		Where("user_id = ? AND slug = ?", userID, slug).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("gallery_items.created_at DESC")
		}).
		First(&g).Error
	return
}
