package handlers

import (
	"errors"
	"net/http"
	"strings"

	"miniblog/internal/db"
	"miniblog/internal/logger"
	"miniblog/internal/models"
	"miniblog/internal/session"
	"miniblog/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loginFailedMsg is deliberately identical for unknown emails and
// wrong passwords so the response never reveals which one it was.
const loginFailedMsg = "Incorrect username or password"

const minPasswordLen = 10

type AuthHandler struct {
	log *logger.Logger
}

func NewAuthHandler(log *logger.Logger) *AuthHandler {
	return &AuthHandler{log: log.Component("auth")}
}

// normalizeEmail folds emails to lower case before storage and
// lookup, so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	obj := gin.H{}
	if c.Query("registered") == "1" {
		obj["JustRegistered"] = true
	}
	Render(c, http.StatusOK, "auth/login.html", obj)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := normalizeEmail(c.PostForm("username"))
	password := c.PostForm("password")

	var user models.User
	err := db.DB.Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("failed to look up user", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	// Unknown email and wrong password take the same branch.
	if err != nil || user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": loginFailedMsg})
		return
	}

	if err := session.AttachIdentity(c, &user); err != nil {
		h.log.Error("failed to persist session", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	firstName := utils.SanitizeText(c.PostForm("firstName"))
	email := normalizeEmail(utils.SanitizeText(c.PostForm("username")))
	password := c.PostForm("password")

	if firstName == "" || email == "" || password == "" {
		Render(c, http.StatusForbidden, "auth/register.html", gin.H{"Error": "All fields are required"})
		return
	}
	if len(password) < minPasswordLen {
		Render(c, http.StatusForbidden, "auth/register.html", gin.H{"Error": "Password must be at least 10 characters"})
		return
	}

	// Duplicate emails are reported as such. Unlike login this does
	// reveal that the address exists; accepted tradeoff.
	var existing models.User
	err := db.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		Render(c, http.StatusForbidden, "auth/register.html", gin.H{"Error": "Email is already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("failed to look up user", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		h.log.Error("failed to hash password", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	user := models.User{
		FirstName: firstName,
		Email:     email,
		Password:  hash,
		Role:      models.RoleReader,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		h.log.Error("failed to create user", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	c.Redirect(http.StatusFound, "/login?registered=1")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		h.log.Error("failed to destroy session", "error", err)
		c.String(http.StatusBadRequest, "Unable to log out")
		return
	}
	c.Redirect(http.StatusFound, "/")
}
