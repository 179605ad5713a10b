//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/brightpixel/studiosite/internal/blog"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestBlogs() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newPost := map[string]any{
		"title":     "Studio news " + gofakeit.UUID(),
		"content":   gofakeit.Paragraph(2, 3, 12, " "),
		"author":    gofakeit.Name(),
		"published": true,
	}

	s.T().Run("add post without session is redirected", func(t *testing.T) {
		resp, _ := doRequest(ctx, t, newAdminClient(t), "POST", "/api/admin/blog", newPost)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/admin/login?from=/api/admin/blog", resp.Header.Get("Location"))
	})

	client := newAdminClient(s.T())
	loginAdmin(ctx, s.T(), client)

	var created blog.Post
	s.T().Run("add, read and delete post", func(t *testing.T) {
		resp, respBytes := doRequest(ctx, t, client, "POST", "/api/admin/blog", newPost)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NoError(t, json.Unmarshal(respBytes, &created))
		require.Positive(t, created.ID)
		require.NotEmpty(t, created.Slug)

		// public read, no session needed
		resp, respBytes = doRequest(ctx, t, http.DefaultClient, "GET", "/api/blog/posts/"+created.Slug, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var fetched blog.Post
		require.NoError(t, json.Unmarshal(respBytes, &fetched))
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, newPost["title"], fetched.Title)

		resp, respBytes = doRequest(ctx, t, http.DefaultClient, "GET", "/api/blog/page/1/size/10", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page blog.PostsResponse
		require.NoError(t, json.Unmarshal(respBytes, &page))
		assert.NotEmpty(t, page.Posts)

		resp, respBytes = doRequest(ctx, t, client, "DELETE", fmt.Sprintf("/api/admin/blog/%d", created.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("deleted:%d", created.ID), string(respBytes))

		// the cache is cleared on delete
		resp, _ = doRequest(ctx, t, http.DefaultClient, "GET", "/api/blog/posts/"+created.Slug, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	s.T().Run("draft is hidden from the public", func(t *testing.T) {
		draft := map[string]any{
			"title":   "Draft " + gofakeit.UUID(),
			"content": gofakeit.Sentence(10),
		}
		resp, respBytes := doRequest(ctx, t, client, "POST", "/api/admin/blog", draft)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var draftPost blog.Post
		require.NoError(t, json.Unmarshal(respBytes, &draftPost))
		assert.False(t, draftPost.Published)

		resp, _ = doRequest(ctx, t, http.DefaultClient, "GET", "/api/blog/posts/"+draftPost.Slug, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = doRequest(ctx, t, client, "GET", fmt.Sprintf("/api/admin/blog/%d", draftPost.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int
		require.NoError(t, s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM blog_post WHERE id = $1 AND published = false`, draftPost.ID,
		).Scan(&count))
		assert.Equal(t, 1, count)
	})
}
