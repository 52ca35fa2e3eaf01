package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"miniblog/internal/config"
	"miniblog/internal/db"
	"miniblog/internal/models"
	"miniblog/internal/session"
	"miniblog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"gorm.io/gorm"
)

var (
	githubOauthConfig *oauth2.Config
	githubAPIURL      string
)

// InitGitHubOAuth configures the GitHub OAuth client. Tests override
// the endpoint URLs to point at a fake provider.
func InitGitHubOAuth(cfg *config.Config) {
	endpoint := github.Endpoint
	if cfg.GitHub.TokenURL != "" {
		endpoint = oauth2.Endpoint{
			AuthURL:  cfg.GitHub.AuthURL,
			TokenURL: cfg.GitHub.TokenURL,
		}
	}

	githubAPIURL = cfg.GitHub.APIURL
	githubOauthConfig = &oauth2.Config{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		RedirectURL:  cfg.SiteURL + "/auth/github/login/callback",
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     endpoint,
	}
}

// GitHubUserInfo is the subset of the GitHub profile this service
// reads.
type GitHubUserInfo struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// GitHubLogin starts the OAuth flow.
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	state, err := utils.NewSecureToken()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate state token")
		return
	}

	// State lands in the session so the callback can verify it.
	s := sessions.Default(c)
	s.Set("oauth_state", state)
	s.Save()

	c.Redirect(http.StatusTemporaryRedirect, githubOauthConfig.AuthCodeURL(state))
}

// GitHubCallback finishes the OAuth flow: verify state, exchange the
// code, fetch the profile, resolve or create the local user, attach
// the identity and go home. Exchange and profile failures are
// terminal for the request, never retried.
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	s := sessions.Default(c)
	savedState := s.Get("oauth_state")

	if savedState == nil || c.Query("state") != savedState.(string) {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{"Error": "Invalid state parameter"})
		return
	}

	s.Delete("oauth_state")
	s.Save()

	code := c.Query("code")
	if code == "" {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{"Error": "Missing authorization code"})
		return
	}

	token, err := githubOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		h.log.Error("token exchange failed", "error", err)
		RenderError(c, http.StatusInternalServerError, "GitHub login failed")
		return
	}

	userInfo, err := h.getGitHubUserInfo(token.AccessToken)
	if err != nil {
		h.log.Error("profile fetch failed", "error", err)
		RenderError(c, http.StatusInternalServerError, "GitHub login failed")
		return
	}

	githubID := strconv.FormatInt(userInfo.ID, 10)

	var user models.User
	err = db.DB.Where("github_id = ?", githubID).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("failed to look up user", "error", err)
		RenderError(c, http.StatusInternalServerError, "GitHub login failed")
		return
	}
	if err != nil {
		// First GitHub login: create a reader with no local password.
		// The unique index on github_id means a concurrent first login
		// fails here rather than adding a second account.
		user = models.User{
			FirstName: userInfo.Login,
			Email:     normalizeEmail(userInfo.Email),
			Role:      models.RoleReader,
			GithubID:  &githubID,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			h.log.Error("failed to create user", "error", err)
			RenderError(c, http.StatusInternalServerError, "GitHub login failed")
			return
		}
	}

	// Both branches attach through the session manager, so a fresh
	// CSRF token is minted for new accounts too.
	if err := session.AttachIdentity(c, &user); err != nil {
		h.log.Error("failed to persist session", "error", err)
		RenderError(c, http.StatusInternalServerError, "GitHub login failed")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) getGitHubUserInfo(accessToken string) (*GitHubUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, githubAPIURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var userInfo GitHubUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
