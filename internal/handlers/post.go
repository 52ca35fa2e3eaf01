package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"miniblog/internal/db"
	"miniblog/internal/logger"
	"miniblog/internal/middleware"
	"miniblog/internal/models"
	"miniblog/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const homeCacheKey = "home:feed"

type PostHandler struct {
	log *logger.Logger
}

func NewPostHandler(log *logger.Logger) *PostHandler {
	return &PostHandler{log: log.Component("post")}
}

type homeFeed struct {
	Posts    []models.Post
	Comments []models.Comment
}

// loadHomeFeed returns the recent posts (comments attached) and the
// flat recent-comments list, cached for a minute.
func (h *PostHandler) loadHomeFeed() (*homeFeed, error) {
	if cached := utils.GetCache().Get(homeCacheKey); cached != nil {
		if feed, ok := cached.(*homeFeed); ok {
			return feed, nil
		}
	}

	var posts []models.Post
	if err := db.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := db.DB.Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}

	byPost := make(map[uint][]models.Comment)
	for _, cm := range comments {
		byPost[cm.PostID] = append(byPost[cm.PostID], cm)
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
	}

	feed := &homeFeed{Posts: posts, Comments: comments}
	utils.GetCache().Set(homeCacheKey, feed, 1*time.Minute)
	return feed, nil
}

func (h *PostHandler) Home(c *gin.Context) {
	feed, err := h.loadHomeFeed()
	if err != nil {
		h.log.Error("failed to load posts", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	Render(c, http.StatusOK, "home.html", gin.H{
		"Posts":    feed.Posts,
		"Comments": feed.Comments,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "post/create.html", nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	title := utils.SanitizeText(c.PostForm("title"))
	content := utils.SanitizeInline(c.PostForm("content"))

	if title == "" {
		Render(c, http.StatusForbidden, "post/create.html", gin.H{"Error": "Title must not be empty"})
		return
	}

	post := models.Post{
		UserID:    ident.UserID,
		Title:     title,
		Content:   content,
		CreatedBy: ident.Name,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		h.log.Error("failed to save post", "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong when saving the post")
		return
	}

	utils.GetCache().Delete(homeCacheKey)
	c.Redirect(http.StatusFound, "/")
}

// Delete removes a post and all its comments. Order matters: a
// missing id answers 404 before any ownership check, so the response
// never hints at who owns a nonexistent post.
func (h *PostHandler) Delete(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	id := c.Param("id")

	postID, err := strconv.Atoi(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Cannot find any post with ID %s", id)})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Cannot find any post with ID %s", id)})
			return
		}
		h.log.Error("failed to load post", "post_id", postID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if !ident.CanModify(&post) {
		c.Status(http.StatusForbidden)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, post.ID)
		if res.Error != nil {
			return res.Error
		}
		// A concurrent delete may have won; report not found then.
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Cannot find any post with ID %s", id)})
		return
	}
	if err != nil {
		h.log.Error("failed to delete post", "post_id", post.ID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	utils.GetCache().Delete(homeCacheKey)
	HtmxRedirect(c, "/")
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	rawID := c.Param("postId")

	postID, err := strconv.Atoi(rawID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Cannot find any post with ID %s", rawID)})
		return
	}

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Cannot find any post with ID %s", rawID)})
			return
		}
		h.log.Error("failed to load post", "post_id", postID, "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	content := utils.SanitizeInline(c.PostForm("content"))
	if content == "" {
		RenderError(c, http.StatusForbidden, "Comment must not be empty")
		return
	}

	comment := models.Comment{
		PostID:    post.ID,
		UserID:    ident.UserID,
		CreatedBy: ident.Name,
		Content:   content,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		h.log.Error("failed to save comment", "post_id", post.ID, "error", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong when saving the comment")
		return
	}

	utils.GetCache().Delete(homeCacheKey)
	c.Redirect(http.StatusFound, "/")
}
