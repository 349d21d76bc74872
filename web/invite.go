package web

import (
	"net/http"

	"artfolio/handlers"
	"artfolio/models"

	"github.com/gin-gonic/gin"
)

// InviteView shows the set-your-password form for a valid token
func InviteView(c *gin.Context) {
	invitation, err := models.InvitationByToken(c.Param("token"))
	if err != nil {
		c.HTML(http.StatusNotFound, "invite_expired.tmpl", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "invite.tmpl", gin.H{
		"name": invitation.User.Name,
	})
}

// InviteAccept sets the password and burns the invitation token
func InviteAccept(c *gin.Context) {
	invitation, err := models.InvitationByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "invitation expired or unknown"})
		return
	}
	password := c.PostForm("password")
	if len(password) < 8 {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: "password must be at least 8 characters"})
		return
	}
	if err = invitation.Accept(password); err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "something went wrong"})
		return
	}
	c.JSON(http.StatusOK, handlers.OKResponse)
}
