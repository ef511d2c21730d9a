package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/blog-backend/models"
	"github.com/inkpost/blog-backend/store"
	"github.com/sirupsen/logrus"
)

type postRequest struct {
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// postResponse is the full post shape returned by single-post and admin
// endpoints.
type postResponse struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	Date       string   `json:"date"`
	AuthorID   int64    `json:"authorId"`
	Published  bool     `json:"published"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"createdAt"`
	ModifiedAt string   `json:"modifiedAt"`
}

// postListItem is the public list shape: excerpt and metadata only, no
// content body.
type postListItem struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Date       string   `json:"date"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"createdAt"`
	ModifiedAt string   `json:"modifiedAt"`
}

const timeLayout = time.RFC3339

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Content:    p.Content,
		Date:       p.Date,
		AuthorID:   p.AuthorID,
		Published:  p.Published,
		Tags:       p.TagNames(),
		CreatedAt:  p.CreatedAt.Format(timeLayout),
		ModifiedAt: p.UpdatedAt.Format(timeLayout),
	}
}

func toPostListItem(p *models.Post) postListItem {
	return postListItem{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Date:       p.Date,
		Tags:       p.TagNames(),
		CreatedAt:  p.CreatedAt.Format(timeLayout),
		ModifiedAt: p.UpdatedAt.Format(timeLayout),
	}
}

// Posts binds the content store to the HTTP surface.
type Posts struct {
	content *store.ContentStore
	log     *logrus.Logger
}

func NewPosts(content *store.ContentStore, log *logrus.Logger) *Posts {
	return &Posts{content: content, log: log}
}

// List handles GET /api/posts - published posts for the public reader view
func (h *Posts) List(c *gin.Context) {
	posts, err := h.content.ListPublished(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("listing published posts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	items := make([]postListItem, 0, len(posts))
	for i := range posts {
		items = append(items, toPostListItem(&posts[i]))
	}
	c.JSON(http.StatusOK, items)
}

// GetBySlug handles GET /api/posts/slug/:slug - single published post
func (h *Posts) GetBySlug(c *gin.Context) {
	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.log.WithError(err).Error("fetching post by slug failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

// AdminList handles GET /api/posts/admin/all - every post including drafts
func (h *Posts) AdminList(c *gin.Context) {
	posts, err := h.content.ListAll(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("listing all posts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	items := make([]postResponse, 0, len(posts))
	for i := range posts {
		items = append(items, toPostResponse(&posts[i]))
	}
	c.JSON(http.StatusOK, items)
}

// Create handles POST /api/posts
func (h *Posts) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if errs := validatePost(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	authorID := c.GetInt64(ctxUserID)
	post, err := h.content.Create(c.Request.Context(), authorID, store.PostInput{
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Content: req.Content,
		Date:    req.Date,
		Tags:    req.Tags,
	})
	if err != nil {
		h.storeError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

// Update handles PUT /api/posts/:id
func (h *Posts) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if errs := validatePost(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	post, err := h.content.Update(c.Request.Context(), id, store.PostInput{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Date:      req.Date,
		Tags:      req.Tags,
		Published: req.Published,
	})
	if err != nil {
		h.storeError(c, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /api/posts/:id
func (h *Posts) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.content.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// storeError translates content-store failures to transport codes. This is
// the only place that mapping lives.
func (h *Posts) storeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, store.ErrSlugConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A post with this title already exists"})
	default:
		h.log.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Field: "id", Message: "Invalid post ID"}}})
		return 0, false
	}
	return id, true
}
