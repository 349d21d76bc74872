package handlers

import (
	"encoding/json"

	"artfolio/mail"
	"artfolio/models"
)

// API groups the handlers that need more than the database, most
// importantly the email client, which is constructed in main() and
// passed in here instead of living in a package-level variable.
type API struct {
	Mail *mail.Client
}

func NewAPI(mailClient *mail.Client) *API {
	return &API{Mail: mailClient}
}

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
)

type GalleryInfo struct {
	ID             uint64 `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Public         bool   `json:"isPublic"`
	FeaturedItemID uint64 `json:"featuredItemId"`
	ItemCount      int64  `json:"itemCount,omitempty"`
}

type ItemInfo struct {
	ID          uint64   `json:"id"`
	GalleryID   uint64   `json:"galleryId"`
	Title       string   `json:"title"`
	ImageURL    string   `json:"imageUrl"`
	ThumbURL    string   `json:"thumbUrl,omitempty"`
	Description string   `json:"description,omitempty"`
	AltText     string   `json:"altText,omitempty"`
	Tags        []string `json:"tags"`
	ArtistName  string   `json:"artistName,omitempty"`
	ArtistLink  string   `json:"artistLink,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
}

func NewGalleryInfo(g *models.Gallery) GalleryInfo {
	info := GalleryInfo{
		ID:          g.ID,
		Slug:        g.Slug,
		Name:        g.Name,
		Description: g.Description,
		Public:      g.Public,
	}
	if g.FeaturedItemID != nil {
		info.FeaturedItemID = *g.FeaturedItemID
	}
	return info
}

func NewItemInfo(item *models.GalleryItem) ItemInfo {
	tags := []string{}
	_ = json.Unmarshal([]byte(item.Tags), &tags)
	return ItemInfo{
		ID:          item.ID,
		GalleryID:   item.GalleryID,
		Title:       item.Title,
		ImageURL:    item.ImageURL,
		ThumbURL:    item.ThumbURL,
		Description: item.Description,
		AltText:     item.AltText,
		Tags:        tags,
		ArtistName:  item.ArtistName,
		ArtistLink:  item.ArtistLink,
		CreatedAt:   item.CreatedAt,
	}
}
