package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"artfolio/auth"
	"artfolio/config"
	"artfolio/db"
	"artfolio/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pquerna/otp/totp"
)

// Profile/banner images advertise a 10 MB limit in the UI copy. This is
// not the same number as the 20 MiB gallery limit in upload.go.
const maxProfileImageSize = 10 * 1000 * 1000

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
	Totp     string `form:"totp"`
}

type UserSaveRequest struct {
	ID    uint64 `form:"id"`
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required"`
	Admin bool   `form:"admin"`
}

type UserIDRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

type TotpEnableRequest struct {
	Secret string `form:"secret" binding:"required"`
	Code   string `form:"code" binding:"required"`
}

type UserInfo struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := models.UserLogin(postReq.Email, postReq.Password, postReq.Totp)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{err.Error()})
		return
	}
	auth.LoadSession(c).LoginUser(&user)
	c.JSON(http.StatusOK, gin.H{"error": "", "name": user.Name, "permissions": user.GetPermissions()})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func UserGetStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{
		"error":       "",
		"name":        user.Name,
		"email":       user.Email,
		"avatarUrl":   user.AvatarURL,
		"bannerUrl":   user.BannerURL,
		"usedBytes":   user.GetUsage(),
		"permissions": user.GetPermissions(),
	})
}

func UserList(c *gin.Context, user *models.User) {
	rows, err := db.Instance.Table("users").Select("id, name, email").Order("created_at DESC").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []UserInfo{}
	for rows.Next() {
		userInfo := UserInfo{}
		if err = rows.Scan(&userInfo.ID, &userInfo.Name, &userInfo.Email); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		result = append(result, userInfo)
	}
	c.JSON(http.StatusOK, result)
}

// UserSave creates or renames an account (admin only). New accounts have
// no password - an invitation email lets the artist set one.
func (api *API) UserSave(c *gin.Context, admin *models.User) {
	r := UserSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.ID > 0 {
		user := models.User{}
		if db.Instance.First(&user, r.ID).Error != nil {
			c.JSON(http.StatusNotFound, Response{"no such user"})
			return
		}
		user.Name = r.Name
		user.Email = r.Email
		if err := db.Instance.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		c.JSON(http.StatusOK, UserInfo{user.ID, user.Name, user.Email})
		return
	}
	user, err := models.UserCreate(r.Name, r.Email, "")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"email already registered"})
		return
	}
	user.CreatedByID = &admin.ID
	db.Instance.Save(&user)
	grants := []models.Permission{models.PermissionUpload}
	if r.Admin {
		grants = append(grants, models.PermissionAdmin)
	}
	for _, permission := range grants {
		db.Instance.Create(&models.Grant{
			GrantorID:  admin.ID,
			UserID:     user.ID,
			Permission: permission,
		})
	}
	if err := api.sendInvitation(&user); err != nil {
		log.Printf("invitation email to %s not sent: %v", user.Email, err)
	}
	c.JSON(http.StatusOK, UserInfo{user.ID, user.Name, user.Email})
}

// UserReInvite voids nothing - old tokens simply expire - and emails a
// fresh invitation
func (api *API) UserReInvite(c *gin.Context, admin *models.User) {
	r := UserIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user := models.User{}
	if db.Instance.First(&user, r.ID).Error != nil {
		c.JSON(http.StatusNotFound, Response{"no such user"})
		return
	}
	if err := api.sendInvitation(&user); err != nil {
		c.JSON(http.StatusInternalServerError, Response{"could not send invitation"})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (api *API) sendInvitation(user *models.User) error {
	invitation := models.NewInvitation(user.ID)
	if err := db.Instance.Create(&invitation).Error; err != nil {
		return err
	}
	link := strings.TrimSuffix(config.PUBLIC_BASE_URL, "/") + "/w/invite/" + invitation.Token + "/"
	return api.Mail.Send(
		user.Email,
		"You are invited to Artfolio",
		fmt.Sprintf("Hi %s,\n\nAn account was created for you. Set your password here:\n%s\n\nThe link is valid for 3 days.\n", user.Name, link),
	)
}

func UserDelete(c *gin.Context, user *models.User) {
	r := UserIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	// Own account or admin
	if r.ID != user.ID && !user.HasPermission(models.PermissionAdmin) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err := db.Instance.Delete(&models.User{}, r.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// UserTotpSetup returns a fresh TOTP secret; nothing is stored until the
// code is verified via UserTotpEnable
func UserTotpSetup(c *gin.Context, user *models.User) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Artfolio",
		AccountName: user.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"secret": key.Secret(), "url": key.URL()})
}

func UserTotpEnable(c *gin.Context, user *models.User) {
	r := TotpEnableRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !totp.Validate(r.Code, r.Secret) {
		c.JSON(http.StatusBadRequest, Response{"wrong code"})
		return
	}
	user.TotpToken = r.Secret
	if err := db.Instance.Model(user).Update("totp_token", r.Secret).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// ProfileImageUpload sets the avatar or banner image (?type=banner)
func ProfileImageUpload(c *gin.Context, user *models.User) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{ErrNoFile.Error()})
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, Response{ErrNotImage.Error()})
		return
	}
	if file.Size > maxProfileImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, Response{ErrTooLarge.Error()})
		return
	}
	stor := userStorage(user)
	if stor == nil {
		c.JSON(http.StatusInternalServerError, Response{ErrStorage.Error()})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	defer reader.Close()
	key := objectKey(user.ID, file.Filename)
	if _, err = stor.SaveNew(key, file.Header.Get("Content-Type"), reader); err != nil {
		c.JSON(http.StatusInternalServerError, Response{ErrStorage.Error()})
		return
	}
	url := stor.PublicURL(key)
	column := "avatar_url"
	if c.Query("type") == "banner" {
		column = "banner_url"
	}
	if err = db.Instance.Model(user).Update(column, url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "url": url})
}
