package models

import (
	"errors"

	"artfolio/db"
	"artfolio/storage"
	"artfolio/utils"

	"github.com/pquerna/otp/totp"
)

const saltSize = 60

var (
	ErrBadCredentials = errors.New("wrong email or password")
	ErrTotpRequired   = errors.New("one-time code required")
)

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	CreatedByID *uint64
	CreatedBy   *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Name        string  `gorm:"type:varchar(100)"`
	Email       string  `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password    string  `gorm:"type:varchar(128)"`
	PassSalt    string  `gorm:"type:varchar(200)"`
	TotpToken   string  `gorm:"type:varchar(200)"`
	Grants      []Grant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BucketID    *uint64
	Bucket      storage.Bucket `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	AvatarURL   string         `gorm:"type:varchar(2000)"`
	BannerURL   string         `gorm:"type:varchar(2000)"`
	Bio         string         `gorm:"type:text"`
}

// UserCreate creates a user account. plainTextPassword may be empty for
// invited users - they cannot log in until the invitation is accepted.
func UserCreate(name, email, plainTextPassword string) (u User, err error) {
	u.Email = email
	u.Name = name
	if plainTextPassword != "" {
		u.SetPassword(plainTextPassword)
	}
	if s := storage.GetDefaultStorage(); s != nil {
		u.BucketID = &s.GetBucket().ID
	}
	return u, db.Instance.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

// UserLogin verifies the password and, when the account has TOTP
// enabled, the one-time code as well
func UserLogin(email, plainTextPassword, totpCode string) (u User, err error) {
	result := db.Instance.Preload("Grants").First(&u, "email = ?", email)
	if result.Error != nil {
		return User{}, ErrBadCredentials
	}
	if u.Password == "" || u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, ErrBadCredentials
	}
	if u.TotpToken != "" {
		if totpCode == "" {
			return User{}, ErrTotpRequired
		}
		if !totp.Validate(totpCode, u.TotpToken) {
			return User{}, ErrBadCredentials
		}
	}
	return u, nil
}

func (u *User) GetPermissions() []int {
	permissions := []int{}
	for _, grant := range u.Grants {
		permissions = append(permissions, int(grant.Permission))
	}
	return permissions
}

func (u *User) HasPermission(required Permission) bool {
	for _, grant := range u.Grants {
		if grant.Permission == required {
			return true
		}
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}

// GetUsage returns the total stored bytes for this user's gallery items
func (u *User) GetUsage() (used int64) {
	err := db.Instance.
		Raw("select ifnull(sum(gallery_items.size), 0) from gallery_items join galleries on galleries.id = gallery_items.gallery_id where galleries.user_id = ?", u.ID).
		Scan(&used).Error
	if err != nil {
		return -1
	}
	return used
}
