// Package session binds a request to an authenticated identity.
//
// Session records live server-side in the configured store; the
// client only holds an opaque signed cookie. The identity snapshot
// and the per-session CSRF token are stored as flat keys and are
// rewritten together: every identity attach mints a fresh CSRF token,
// so a token never survives a change of identity.
package session

import (
	"miniblog/internal/models"
	"miniblog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName names the session cookie set on clients.
const CookieName = "miniblog_session"

// MaxAgeSeconds is the session inactivity window, measured from the
// last write.
const MaxAgeSeconds = 15 * 60

const (
	keyUserID = "user_id"
	keyEmail  = "user_email"
	keyName   = "user_name"
	keyRole   = "user_role"
	keyCSRF   = "csrf_token"
)

// Identity is the authenticated-user snapshot carried by a session.
// Role is refreshed only at login or OAuth resolve; a role change
// takes effect at the next login.
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Role   string
}

func (i *Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// CanModify reports whether this identity may delete the post:
// admins always, otherwise only the creator.
func (i *Identity) CanModify(post *models.Post) bool {
	return i.IsAdmin() || post.UserID == i.UserID
}

// Current returns the identity attached to the request's session, or
// nil when the session is anonymous.
func Current(c *gin.Context) *Identity {
	s := sessions.Default(c)
	userID, ok := s.Get(keyUserID).(uint)
	if !ok || userID == 0 {
		return nil
	}

	ident := &Identity{UserID: userID}
	if v, ok := s.Get(keyEmail).(string); ok {
		ident.Email = v
	}
	if v, ok := s.Get(keyName).(string); ok {
		ident.Name = v
	}
	if v, ok := s.Get(keyRole).(string); ok {
		ident.Role = v
	}
	return ident
}

// AttachIdentity stores the user snapshot on the session together
// with a newly minted CSRF token, and persists the session before
// returning so the client cannot outrun the redirect that follows.
func AttachIdentity(c *gin.Context, user *models.User) error {
	token, err := utils.NewSecureToken()
	if err != nil {
		return err
	}

	s := sessions.Default(c)
	s.Set(keyUserID, user.ID)
	s.Set(keyEmail, user.Email)
	s.Set(keyName, user.FirstName)
	s.Set(keyRole, user.Role)
	s.Set(keyCSRF, token)
	return s.Save()
}

// Clear destroys the whole session record, not just the identity.
// The save error is returned so logout can answer "unable to log out"
// distinctly.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// CSRFToken returns the session's CSRF token, empty when anonymous.
func CSRFToken(c *gin.Context) string {
	s := sessions.Default(c)
	if v, ok := s.Get(keyCSRF).(string); ok {
		return v
	}
	return ""
}
