package models

import (
	"time"

	"artfolio/db"
	"artfolio/utils"
)

// Invitations expire after 3 days
const invitationValidFor = 72 * time.Hour

type Invitation struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"not null"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Token     string `gorm:"type:varchar(120);index:uniq_invitation_token,unique"`
}

func NewInvitation(userID uint64) Invitation {
	return Invitation{
		UserID: userID,
		Token:  utils.Rand16BytesToBase62() + utils.Rand16BytesToBase62(),
	}
}

// InvitationByToken returns the invitation if it exists and hasn't expired
func InvitationByToken(token string) (inv Invitation, err error) {
	cutoff := time.Now().Add(-invitationValidFor).Unix()
	err = db.Instance.
		Where("token = ? AND created_at >= ?", token, cutoff).
		Preload("User").
		First(&inv).Error
	return
}

// Accept sets the user's password and burns the token
func (inv *Invitation) Accept(plainTextPassword string) error {
	inv.User.SetPassword(plainTextPassword)
	if err := db.Instance.Save(&inv.User).Error; err != nil {
		return err
	}
	return db.Instance.Delete(inv).Error
}
