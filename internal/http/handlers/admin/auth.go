package admin

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecoh04/paperwalls/internal/http/middleware"
	"github.com/ecoh04/paperwalls/internal/http/validation"
	"github.com/ecoh04/paperwalls/internal/shared/apperr"
)

// AuthHandler logs the single back-office account in and out. Credentials
// live in the environment, not the database.
type AuthHandler struct {
	Email        string
	PasswordHash string
	Sessions     *middleware.AdminSessions
}

func NewAuthHandler(email, passwordHash string, sessions *middleware.AdminSessions) *AuthHandler {
	return &AuthHandler{Email: email, PasswordHash: passwordHash, Sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Login request is invalid.", validation.FromBindError(err, &req)))
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.Email)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(req.Password)) == nil
	if !emailOK || !passOK {
		middleware.Fail(c, apperr.UnauthorizedErr("Email or password is incorrect."))
		return
	}

	h.Sessions.Issue(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
