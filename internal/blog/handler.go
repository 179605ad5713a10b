package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type PostsResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}

type postRequest struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
}

type blogRepo interface {
	AddPost(ctx context.Context, post *Post) error
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int) error
	GetPost(ctx context.Context, id int) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	All(ctx context.Context, includeDrafts bool) ([]*Post, error)
	PostsCount(ctx context.Context, publishedOnly bool) (int, error)
	GetPostsPage(ctx context.Context, page, size int) ([]*Post, error)
}

type Handler struct {
	repo  blogRepo
	cache *ResponseCache
}

// NewHandler creates the blog handler. cache may be nil, public responses are then never cached.
func NewHandler(repo blogRepo, cache *ResponseCache) *Handler {
	return &Handler{
		repo:  repo,
		cache: cache,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	publicRouter := mainRouter.PathPrefix("/api/blog").Subrouter()
	publicRouter.HandleFunc("/posts", handler.handleAllPublished).Methods("GET").Name("blog-posts")
	publicRouter.HandleFunc("/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("blog-posts-page")
	publicRouter.HandleFunc("/posts/{slug}", handler.handleGetBySlug).Methods("GET").Name("blog-post")

	// the admin gate protects everything under /api/admin
	adminRouter := mainRouter.PathPrefix("/api/admin/blog").Subrouter()
	adminRouter.HandleFunc("", handler.handleAdminAll).Methods("GET").Name("admin-blog-all")
	adminRouter.HandleFunc("", handler.handleNewPost).Methods("POST", "OPTIONS").Name("admin-blog-new")
	adminRouter.HandleFunc("/{id}", handler.handleAdminGet).Methods("GET").Name("admin-blog-get")
	adminRouter.HandleFunc("/{id}", handler.handleUpdatePost).Methods("PUT", "OPTIONS").Name("admin-blog-update")
	adminRouter.HandleFunc("/{id}", handler.handleDeletePost).Methods("DELETE").Name("admin-blog-delete")
}

func (handler *Handler) handleAllPublished(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "posts:all"
	if cached, ok := handler.cache.Get(cacheKey); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	posts, err := handler.repo.All(r.Context(), false)
	if err != nil {
		log.Errorf("get all published posts: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	handler.writeCachedJSON(w, cacheKey, PostsResponse{Posts: posts, Total: len(posts)})
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	pageStr := vars["page"]
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		log.Debugf("handle get blog page, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	sizeStr := vars["size"]
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		log.Debugf("handle get blog page, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	log.Tracef("get blog posts - page %s size %s", pageStr, sizeStr)

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 || size > 100 {
		http.Error(w, "invalid size (has to be between 1 and 100)", http.StatusBadRequest)
		return
	}

	cacheKey := fmt.Sprintf("posts:page:%d:%d", page, size)
	if cached, ok := handler.cache.Get(cacheKey); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	posts, err := handler.repo.GetPostsPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get blog posts page: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.PostsCount(r.Context(), true)
	if err != nil {
		log.Errorf("get blog posts count: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	handler.writeCachedJSON(w, cacheKey, PostsResponse{Posts: posts, Total: total})
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	cacheKey := "post:" + slug
	if cached, ok := handler.cache.Get(cacheKey); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	post, err := handler.repo.GetPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("get blog post [%s]: %s", slug, err)
		http.Error(w, "failed to get blog post", http.StatusInternalServerError)
		return
	}

	// drafts are only visible through the admin api
	if !post.Published {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	handler.writeCachedJSON(w, cacheKey, post)
}

func (handler *Handler) handleAdminAll(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.All(r.Context(), true)
	if err != nil {
		log.Errorf("get all blog posts: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, PostsResponse{Posts: posts, Total: len(posts)})
}

func (handler *Handler) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	post, err := handler.repo.GetPost(r.Context(), id)
	if err != nil {
		handler.writeRepoError(w, "get", id, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, post)
}

func (handler *Handler) handleNewPost(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	post := req.toPost()
	if err := handler.repo.AddPost(r.Context(), post); err != nil {
		handler.writeRepoError(w, "add", 0, err)
		return
	}
	handler.cache.Clear()

	log.Tracef("new blog post %d: [%s] added", post.ID, post.Slug)
	pkg.WriteJSON(w, http.StatusCreated, post)
}

func (handler *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}
	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	post := req.toPost()
	post.ID = id
	if err := handler.repo.UpdatePost(r.Context(), post); err != nil {
		handler.writeRepoError(w, "update", id, err)
		return
	}
	handler.cache.Clear()

	pkg.WriteJSON(w, http.StatusOK, post)
}

func (handler *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	if err := handler.repo.DeletePost(r.Context(), id); err != nil {
		handler.writeRepoError(w, "delete", id, err)
		return
	}
	handler.cache.Clear()

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) writeCachedJSON(w http.ResponseWriter, cacheKey string, v any) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal blog response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	handler.cache.Set(cacheKey, respJson)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrPostTitleOrContentEmpty), errors.Is(err, ErrInvalidSlug):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSlugTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s blog post %d: %s", op, id, err)
		http.Error(w, fmt.Sprintf("%s blog post failed", op), http.StatusInternalServerError)
	}
}

func (req postRequest) toPost() *Post {
	return &Post{
		Slug:      req.Slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Author:    req.Author,
		Published: req.Published,
	}
}

func decodePostRequest(w http.ResponseWriter, r *http.Request) (postRequest, bool) {
	var req postRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Debugf("blog post, unmarshal json params: %s", err)
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return req, false
		}
		return req, true
	}

	if err := pkg.ParseFormBody(r); err != nil {
		log.Debugf("blog post, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return req, false
	}
	published, _ := strconv.ParseBool(r.PostFormValue("published"))
	return postRequest{
		Slug:      r.PostFormValue("slug"),
		Title:     r.PostFormValue("title"),
		Excerpt:   r.PostFormValue("excerpt"),
		Content:   r.PostFormValue("content"),
		Author:    r.PostFormValue("author"),
		Published: published,
	}, true
}

func idFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
