package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecoh04/paperwalls/internal/shared/apperr"
)

const AdminCookieName = "pw_admin_session"

// AdminSessions issues and checks stateless signed session cookies for the
// single admin account. The token is "<expiry-unix>.<hmac>"; rotating the
// secret invalidates every outstanding session.
type AdminSessions struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

func NewAdminSessions(secret string, secure bool) *AdminSessions {
	return &AdminSessions{
		Secret: []byte(secret),
		TTL:    12 * time.Hour,
		Secure: secure,
	}
}

func (s *AdminSessions) Issue(c *gin.Context) {
	expiry := time.Now().Add(s.TTL).Unix()
	token := strconv.FormatInt(expiry, 10)
	token = token + "." + s.sign(token)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, token, int(s.TTL.Seconds()), "/", "", s.Secure, true)
}

func (s *AdminSessions) Clear(c *gin.Context) {
	c.SetCookie(AdminCookieName, "", -1, "/", "", s.Secure, true)
}

func (s *AdminSessions) Valid(c *gin.Context) bool {
	token, err := c.Cookie(AdminCookieName)
	if err != nil || token == "" {
		return false
	}
	raw, sig, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(raw))) {
		return false
	}
	expiry, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return time.Now().Unix() < expiry
}

func (s *AdminSessions) sign(payload string) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func RequireAdmin(sessions *AdminSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Valid(c) {
			Fail(c, apperr.UnauthorizedErr("Authentication required."))
			return
		}
		c.Next()
	}
}
