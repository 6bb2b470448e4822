package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

// RenderedPost pairs a post with its rendered HTML body.
type RenderedPost struct {
	domain.BlogPost
	HTML string
}

// BlogService serves the static blog. Posts are authored in markdown and
// rendered with goldmark; rendered HTML is cached per slug since posts never
// change at runtime.
type BlogService struct {
	md    goldmark.Markdown
	posts []domain.BlogPost

	mu       sync.Mutex
	rendered map[string]string
}

// NewBlogService seeds the posts and prepares the renderer.
func NewBlogService() *BlogService {
	return &BlogService{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		posts:    seedPosts(),
		rendered: make(map[string]string),
	}
}

// List returns all posts, newest first, without bodies rendered.
func (s *BlogService) List(ctx context.Context) ([]domain.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := append([]domain.BlogPost(nil), s.posts...)
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PublishedAt.Equal(posts[j].PublishedAt) {
			return posts[i].PublishedAt.After(posts[j].PublishedAt)
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// Get renders a single post by slug.
func (s *BlogService) Get(ctx context.Context, slug string) (*RenderedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, post := range s.posts {
		if post.Slug != slug {
			continue
		}
		html, err := s.render(post)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		return &RenderedPost{BlogPost: post, HTML: html}, nil
	}
	return nil, util.NewNotFound("blog post", map[string]any{"slug": slug})
}

func (s *BlogService) render(post domain.BlogPost) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if html, ok := s.rendered[post.Slug]; ok {
		return html, nil
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(post.Markdown), &buf); err != nil {
		return "", err
	}
	html := buf.String()
	s.rendered[post.Slug] = html
	return html, nil
}

func seedPosts() []domain.BlogPost {
	return []domain.BlogPost{
		{
			Slug:        "why-your-small-business-needs-a-ticket-system",
			Title:       "Why Your Small Business Needs a Ticket System",
			Author:      "Studio",
			Tags:        []string{"support", "process"},
			PublishedAt: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
			Markdown: `Email threads lose context. A ticket has a status, a priority and a history.

## The short version

- Every request gets an id you can reference.
- Nothing silently falls through after a reply.
- You can actually measure resolution time.

If you are still triaging support in a shared inbox, start with statuses: *open*,
*in progress*, *resolved*. The rest follows.`,
		},
		{
			Slug:        "choosing-between-retainer-and-project-pricing",
			Title:       "Choosing Between Retainer and Project Pricing",
			Author:      "Studio",
			Tags:        []string{"business"},
			PublishedAt: time.Date(2025, 2, 17, 9, 0, 0, 0, time.UTC),
			Markdown: `Project pricing caps your risk; retainers cap your client's. Most of my
engagements start as a fixed-scope project and convert to a small monthly
retainer once the system is live.

| Model | Good for | Watch out for |
|-------|----------|---------------|
| Project | Well-defined scope | Change requests |
| Retainer | Ongoing ops | Scope creep |`,
		},
		{
			Slug:        "monitoring-a-one-person-saas",
			Title:       "Monitoring a One-Person SaaS",
			Author:      "Studio",
			Tags:        []string{"operations", "go"},
			PublishedAt: time.Date(2024, 10, 29, 9, 0, 0, 0, time.UTC),
			Markdown: `You do not need a pager rotation to run reliable software alone. You need
three things: structured logs, a health endpoint, and an uptime check that
emails you. Everything else is optional until customers say otherwise.`,
		},
	}
}
