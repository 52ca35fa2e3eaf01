package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"miniblog/internal/db"
	"miniblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstPost(t *testing.T) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.DB.Order("id ASC").First(&post).Error)
	return post
}

func TestCreatePost_StripsDisallowedMarkup(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")

	cl.createPost("T", "<script>x</script>Hi")

	post := firstPost(t)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "Hi", post.Content)
	assert.Equal(t, "Ada", post.CreatedBy)
}

func TestCreatePost_KeepsInlineFormatting(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")

	cl.createPost("<b>T</b>", `<em>fine</em> <a href="/x">stripped</a>`)

	post := firstPost(t)
	assert.Equal(t, "T", post.Title, "titles allow no tags at all")
	assert.Equal(t, "<em>fine</em> stripped", post.Content)
}

func TestCreatePost_EmptyTitleRejected(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")

	w := cl.postForm("/newpost", url.Values{
		"csrf_token": {cl.csrfToken()},
		"title":      {"<i></i>"}, // sanitizes to nothing
		"content":    {"body"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.DB.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreatePost_RejectedWithoutCSRF(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")

	w := cl.postForm("/newpost", url.Values{
		"title":   {"T"},
		"content": {"body"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.DB.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count, "handler must not run without a CSRF token")
}

func TestDeletePost_OwnerAndAdminOnly(t *testing.T) {
	r := newTestServer(t)

	ada := newClient(t, r)
	ada.register("Ada", "a@x.com", "longenough1!")
	ada.login("a@x.com", "longenough1!")
	ada.createPost("Ada's post", "hello")
	post := firstPost(t)

	bob := newClient(t, r)
	bob.register("Bob", "b@x.com", "longenough2!")
	bob.login("b@x.com", "longenough2!")

	// Bob comments on Ada's post so the cascade has something to do.
	w := bob.postForm(fmt.Sprintf("/comment/%d", post.ID), url.Values{
		"csrf_token": {bob.csrfToken()},
		"content":    {"nice post"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	// A non-admin non-owner cannot delete; the post stays.
	w = bob.do(http.MethodDelete, fmt.Sprintf("/newpost/%d", post.ID), nil,
		map[string]string{"X-CSRF-Token": bob.csrfToken()})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.DB.Model(&models.Post{}).Count(&count)
	require.EqualValues(t, 1, count)

	// The owner can, and comments go with the post.
	w = ada.do(http.MethodDelete, fmt.Sprintf("/newpost/%d", post.ID), nil,
		map[string]string{"X-CSRF-Token": ada.csrfToken()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))

	db.DB.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
	db.DB.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count, "deleting a post removes its comments")
}

func TestDeletePost_AdminMayDeleteAnyPost(t *testing.T) {
	r := newTestServer(t)

	ada := newClient(t, r)
	ada.register("Ada", "a@x.com", "longenough1!")
	ada.login("a@x.com", "longenough1!")
	ada.createPost("Ada's post", "hello")
	post := firstPost(t)

	carol := newClient(t, r)
	carol.register("Carol", "c@x.com", "longenough3!")
	// Promote before login: the role snapshot is taken at login time.
	require.NoError(t, db.DB.Model(&models.User{}).
		Where("email = ?", "c@x.com").
		Update("role", models.RoleAdmin).Error)
	carol.login("c@x.com", "longenough3!")

	w := carol.do(http.MethodDelete, fmt.Sprintf("/newpost/%d", post.ID), nil,
		map[string]string{"X-CSRF-Token": carol.csrfToken()})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.DB.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeletePost_UnknownIDIs404NotForbidden(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")

	// Not-found must win over ownership so the response leaks nothing
	// about posts that do not exist.
	w := cl.do(http.MethodDelete, "/newpost/9999", nil,
		map[string]string{"X-CSRF-Token": cl.csrfToken()})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot find any post with ID 9999")
}

func TestDeletePost_AnonymousGets401(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)

	w := cl.do(http.MethodDelete, "/newpost/1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestComment_UnknownPostIs404(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")

	w := cl.postForm("/comment/777", url.Values{
		"csrf_token": {cl.csrfToken()},
		"content":    {"hello?"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComment_SanitizedAndListed(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")
	cl.createPost("T", "body")
	post := firstPost(t)

	w := cl.postForm(fmt.Sprintf("/comment/%d", post.ID), url.Values{
		"csrf_token": {cl.csrfToken()},
		"content":    {"<div><strong>yes</strong></div><script>no()</script>"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var comment models.Comment
	require.NoError(t, db.DB.First(&comment).Error)
	assert.Equal(t, "<strong>yes</strong>", comment.Content)
	assert.Equal(t, post.ID, comment.PostID)

	home := cl.get("/")
	assert.Contains(t, home.Body.String(), "<strong>yes</strong>")
}

func TestHome_PublicAndOrdered(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")
	cl.createPost("First", "one")
	cl.createPost("Second", "two")

	anon := newClient(t, r)
	w := anon.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "First")
	assert.Contains(t, body, "Second")
	// Anonymous visitors see no delete controls.
	assert.NotContains(t, body, "button class=\"delete\"")
}

func TestDeletePost_StoreFailureIs500NotFound(t *testing.T) {
	r := newTestServer(t)
	cl := newClient(t, r)
	cl.register("Ada", "a@x.com", "longenough1!")
	cl.login("a@x.com", "longenough1!")
	cl.createPost("T", "body")
	post := firstPost(t)
	token := cl.csrfToken()

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// A dead store must not read as a missing post.
	w := cl.do(http.MethodDelete, fmt.Sprintf("/newpost/%d", post.ID), nil,
		map[string]string{"X-CSRF-Token": token})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Cannot find any post")
}
