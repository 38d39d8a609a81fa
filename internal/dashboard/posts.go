// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/ctxutil"
	"github.com/taibuivan/aegis/internal/platform/validate"
	"github.com/taibuivan/aegis/internal/users/account"
	"github.com/taibuivan/aegis/pkg/pagination"
	"github.com/taibuivan/aegis/pkg/uuid"
)

// maxPostLength bounds post and comment bodies.
const maxPostLength = 1000

// Comment is a reply under a community post.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a community feed entry.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Comments  []Comment `json:"comments"`
}

func (p *Post) clone() *Post {
	copied := *p
	copied.Comments = append([]Comment{}, p.Comments...)
	return &copied
}

// Feed stores community posts in memory.
type Feed struct {
	mu    sync.RWMutex
	posts map[string]*Post
	now   func() time.Time
}

// NewFeed creates a feed holding copies of seed.
func NewFeed(seed ...*Post) *Feed {
	feed := &Feed{posts: make(map[string]*Post, len(seed)), now: time.Now}
	for _, post := range seed {
		feed.posts[post.ID] = post.clone()
	}
	return feed
}

// List returns one page of posts, newest first, and the total count.
func (feed *Feed) List(_ context.Context, params pagination.Params) ([]*Post, int) {
	feed.mu.RLock()
	defer feed.mu.RUnlock()

	all := make([]*Post, 0, len(feed.posts))
	for _, post := range feed.posts {
		all = append(all, post.clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	return pagination.Window(all, params), len(all)
}

/*
Publish adds a post by author.

Returns:
  - *Post: The stored post
  - error: Validation failures
*/
func (feed *Feed) Publish(_ context.Context, author *account.User, body string) (*Post, error) {
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:        uuid.New(),
		Author:    author.Username,
		Body:      body,
		CreatedAt: feed.now().UTC(),
		Comments:  []Comment{},
	}

	feed.mu.Lock()
	feed.posts[post.ID] = post.clone()
	feed.mu.Unlock()

	return post, nil
}

/*
Comment appends a comment by author under the post with postID.

Returns:
  - *Comment: The stored comment
  - error: Validation or NotFound failures
*/
func (feed *Feed) Comment(_ context.Context, author *account.User, postID, body string) (*Comment, error) {
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}

	feed.mu.Lock()
	defer feed.mu.Unlock()

	post, ok := feed.posts[postID]
	if !ok {
		return nil, apperr.NotFound("Post")
	}

	comment := Comment{ID: uuid.New(), Author: author.Username, Body: body, CreatedAt: feed.now().UTC()}
	post.Comments = append(post.Comments, comment)
	return &comment, nil
}

// Remove deletes a post on behalf of a moderator.
func (feed *Feed) Remove(ctx context.Context, moderator *account.User, postID string) error {
	feed.mu.Lock()
	post, ok := feed.posts[postID]
	delete(feed.posts, postID)
	feed.mu.Unlock()

	if !ok {
		return apperr.NotFound("Post")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "post_removed",
		slog.String("post_id", postID),
		slog.String("author", post.Author),
		slog.String("moderator", moderator.Username),
	)
	return nil
}

func cleanBody(body string) (string, error) {
	body = strings.TrimSpace(body)

	validator := &validate.Validator{}
	validator.Required(FieldBody, body).MaxLen(FieldBody, body, maxPostLength)
	return body, validator.Err()
}

// SeedPosts returns the mock feed shown on a fresh deployment.
func SeedPosts() []*Post {
	created := time.Date(2026, time.March, 2, 7, 30, 0, 0, time.UTC)

	return []*Post{
		{
			ID:        "0194b2a1-0000-7000-8000-000000000001",
			Author:    "resident",
			Body:      "Water is over the footbridge on Elm Street. Please use the north crossing.",
			CreatedAt: created,
			Comments: []Comment{
				{
					ID:        "0194b2a1-0000-7000-8000-000000000101",
					Author:    "moderator",
					Body:      "Thanks, crews are on the way.",
					CreatedAt: created.Add(10 * time.Minute),
				},
			},
		},
		{
			ID:        "0194b2a1-0000-7000-8000-000000000002",
			Author:    "moderator",
			Body:      "Shelter at the community hall is open until further notice.",
			CreatedAt: created.Add(time.Hour),
			Comments:  []Comment{},
		},
	}
}
