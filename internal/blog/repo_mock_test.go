package blog

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ blogRepo = (*repoMock)(nil)

type repoMock struct {
	mutex  sync.Mutex
	posts  map[int]*Post
	nextID int
	err    error
	calls  int
}

func newRepoMock() *repoMock {
	return &repoMock{
		posts:  make(map[int]*Post),
		nextID: 1,
	}
}

func (r *repoMock) AddPost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	if err := post.Normalize(); err != nil {
		return err
	}
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return ErrSlugTaken
		}
	}
	post.ID = r.nextID
	r.nextID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *repoMock) UpdatePost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	existing, ok := r.posts[post.ID]
	if !ok {
		return ErrPostNotFound
	}
	if err := post.Normalize(); err != nil {
		return err
	}
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = time.Now()
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *repoMock) DeletePost(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *repoMock) GetPost(_ context.Context, id int) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (r *repoMock) GetPostBySlug(_ context.Context, slug string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *repoMock) All(_ context.Context, includeDrafts bool) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(includeDrafts), nil
}

func (r *repoMock) PostsCount(_ context.Context, publishedOnly bool) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return -1, r.err
	}
	return len(r.sorted(!publishedOnly)), nil
}

func (r *repoMock) GetPostsPage(_ context.Context, page, size int) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	posts := r.sorted(false)
	start := (page - 1) * size
	if start >= len(posts) {
		return []*Post{}, nil
	}
	end := start + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end], nil
}

func (r *repoMock) callsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.calls
}

// sorted returns posts newest first; caller holds the mutex
func (r *repoMock) sorted(includeDrafts bool) []*Post {
	posts := []*Post{}
	for _, p := range r.posts {
		if p.Published || includeDrafts {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}
