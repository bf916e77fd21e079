package service

import (
	"net/http"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/pagination"
	"github.com/dailymd-dev/dailymd/internal/step"
	"github.com/dailymd-dev/dailymd/internal/validation"
)

// Submitted markdown is stored as-is except for markup that could smuggle
// scripts into rendered pages.
var sanitizer = bluemonday.UGCPolicy()

// to mock service in tests
type BlogService interface {
	Create(userId domain.UserId, title, body, keywords string) error
	Fetch(blogId domain.BlogId) (*domain.Blog, error)
	Update(userId domain.UserId, blogId domain.BlogId, title, body string) error
	Delete(userId domain.UserId, blogId domain.BlogId) error
	Rate(userId domain.UserId, blogId domain.BlogId, score int) error
	Comment(userId domain.UserId, blogId domain.BlogId, body string) error
	RemoveComment(userId domain.UserId, blogId domain.BlogId, commentId domain.CommentId) error

	Recent(page int) ([]domain.BlogPreview, bool, error)
	Search(keywords string, page int) ([]domain.BlogPreview, bool, error)
	SubscriptionFeed(userId domain.UserId, page int) ([]domain.BlogPreview, bool, error)
	ByAuthor(authorId domain.UserId, page int) ([]domain.BlogPreview, bool, error)
	Comments(blogId domain.BlogId, page int) ([]domain.Comment, bool, error)
}

type Blog struct {
	storage BlogStorage
}

type BlogStorage interface {
	SaveBlog(blog domain.Blog) (domain.BlogId, error)
	BlogById(id domain.BlogId) (*domain.Blog, error)
	UpdateBlog(id domain.BlogId, title, body string) error
	DeleteBlog(id domain.BlogId) error

	RecentBlogs(offset, limit int) ([]domain.BlogPreview, error)
	SearchBlogs(keywords string, offset, limit int) ([]domain.BlogPreview, error)
	BlogsByAuthor(authorId domain.UserId, offset, limit int) ([]domain.BlogPreview, error)
	BlogsByAuthors(authorIds []domain.UserId, offset, limit int) ([]domain.BlogPreview, error)
	Comments(blogId domain.BlogId, offset, limit int) ([]domain.Comment, error)

	AddRating(blogId domain.BlogId, rating domain.Rating) error
	AddComment(blogId domain.BlogId, comment domain.Comment) (domain.CommentId, error)
	RemoveComment(blogId domain.BlogId, commentId domain.CommentId) error

	UserById(id domain.UserId) (*domain.User, error)
}

func NewBlog(storage BlogStorage) *Blog {
	return &Blog{storage}
}

func (b *Blog) Create(userId domain.UserId, title, body, keywords string) error {
	var author *domain.User

	return step.Run("create blog", []step.Step{
		{Name: "validate details", Run: func(op *step.Op) error {
			if err := validation.BlogTitle(title); err != nil {
				return err
			}
			if err := validation.BlogBody(body); err != nil {
				return err
			}
			return validation.Keywords(keywords)
		}},

		{Name: "resolve author", Run: func(op *step.Op) error {
			user, err := b.storage.UserById(userId)
			if err != nil {
				return err
			}
			if !user.Verified {
				return &errors.ErrorWithStatusCode{
					Message:    "You must verify your new account before you can create blogs.",
					StatusCode: http.StatusUnauthorized,
				}
			}
			author = user
			return nil
		}},

		{Name: "save blog", Run: func(op *step.Op) error {
			_, err := b.storage.SaveBlog(domain.Blog{
				Author:   author.FullName(),
				AuthorId: userId,
				Title:    title,
				Body:     sanitizer.Sanitize(body),
				Keywords: keywords,
			})
			return err
		}},
	})
}

func (b *Blog) Fetch(blogId domain.BlogId) (*domain.Blog, error) {
	return b.storage.BlogById(blogId)
}

func (b *Blog) Update(userId domain.UserId, blogId domain.BlogId, title, body string) error {
	var blog *domain.Blog

	return step.Run("update blog", []step.Step{
		{Name: "resolve blog and check authorship", Run: func(op *step.Op) error {
			found, err := b.storage.BlogById(blogId)
			if err != nil {
				return err
			}
			if found.AuthorId != userId {
				return errNotBlogAuthor
			}
			blog = found
			return nil
		}},

		{Name: "save changes", Run: func(op *step.Op) error {
			if err := validation.BlogTitle(title); err != nil {
				return err
			}
			if err := validation.BlogBody(body); err != nil {
				return err
			}
			return b.storage.UpdateBlog(blog.Id, title, sanitizer.Sanitize(body))
		}},
	})
}

func (b *Blog) Delete(userId domain.UserId, blogId domain.BlogId) error {
	blog, err := b.storage.BlogById(blogId)
	if err != nil {
		return err
	}
	if blog.AuthorId != userId {
		return errNotBlogAuthor
	}
	return b.storage.DeleteBlog(blogId)
}

// Rate records one rating per (blog, rater). The duplicate check is
// read-then-write without locking: two near-simultaneous first ratings from
// the same user can both slip through. Accepted and documented; a storage
// uniqueness constraint would close it.
func (b *Blog) Rate(userId domain.UserId, blogId domain.BlogId, score int) error {
	return step.Run("rate blog", []step.Step{
		{Name: "validate score", Run: func(op *step.Op) error {
			return validation.Score(score)
		}},

		{Name: "check for existing rating and commit", Run: func(op *step.Op) error {
			blog, err := b.storage.BlogById(blogId)
			if err != nil {
				return err
			}
			if blog.UserHasRated(userId) != 0 {
				return &errors.ErrorWithStatusCode{
					Message:    "You already rated this blog.",
					StatusCode: http.StatusConflict,
				}
			}
			return b.storage.AddRating(blogId, domain.Rating{RaterId: userId, Score: score})
		}},
	})
}

func (b *Blog) Comment(userId domain.UserId, blogId domain.BlogId, body string) error {
	var author *domain.User

	return step.Run("post comment", []step.Step{
		{Name: "validate comment", Run: func(op *step.Op) error {
			return validation.CommentBody(body)
		}},

		{Name: "resolve author", Run: func(op *step.Op) error {
			user, err := b.storage.UserById(userId)
			if err != nil {
				return err
			}
			if !user.Verified {
				return &errors.ErrorWithStatusCode{
					Message:    "A verified user with the given ID was not found.",
					StatusCode: http.StatusNotFound,
				}
			}
			author = user
			return nil
		}},

		{Name: "resolve blog and commit", Run: func(op *step.Op) error {
			blog, err := b.storage.BlogById(blogId)
			if err != nil {
				return err
			}
			_, err = b.storage.AddComment(blog.Id, domain.Comment{
				Author:   author.FullName(),
				AuthorId: userId,
				Body:     sanitizer.Sanitize(body),
			})
			return err
		}},
	})
}

// RemoveComment checks authorship of the comment itself, not of the blog it
// sits on.
func (b *Blog) RemoveComment(userId domain.UserId, blogId domain.BlogId, commentId domain.CommentId) error {
	blog, err := b.storage.BlogById(blogId)
	if err != nil {
		return err
	}

	comment := blog.FindComment(commentId)
	if comment == nil {
		return &errors.ErrorWithStatusCode{
			Message:    "The comment requested was not found.",
			StatusCode: http.StatusNotFound,
		}
	}
	if comment.AuthorId != userId {
		return &errors.ErrorWithStatusCode{
			Message:    "You are not the author of this comment.",
			StatusCode: http.StatusForbidden,
		}
	}

	return b.storage.RemoveComment(blogId, commentId)
}

func (b *Blog) Recent(page int) ([]domain.BlogPreview, bool, error) {
	blogs, lastPage, err := fetchPreviewPage(page, b.storage.RecentBlogs)
	if err != nil {
		return nil, false, err
	}
	if len(blogs) == 0 {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "There are no blogs, yet!",
			StatusCode: http.StatusNotFound,
		}
	}
	return blogs, lastPage, nil
}

func (b *Blog) Search(keywords string, page int) ([]domain.BlogPreview, bool, error) {
	if keywords == "" {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "Please enter a search query.",
			StatusCode: http.StatusBadRequest,
		}
	}

	blogs, lastPage, err := fetchPreviewPage(page, func(offset, limit int) ([]domain.BlogPreview, error) {
		return b.storage.SearchBlogs(keywords, offset, limit)
	})
	if err != nil {
		return nil, false, err
	}
	// An empty first page here is a legitimate "no results", unlike the
	// page-drift case handled by the retry above.
	if len(blogs) == 0 {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "Your search did not turn up any results.",
			StatusCode: http.StatusNotFound,
		}
	}
	return blogs, lastPage, nil
}

func (b *Blog) SubscriptionFeed(userId domain.UserId, page int) ([]domain.BlogPreview, bool, error) {
	user, err := b.storage.UserById(userId)
	if err != nil {
		return nil, false, err
	}
	if !user.Verified {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "A verified user with this ID was not found.",
			StatusCode: http.StatusNotFound,
		}
	}
	if len(user.Subscriptions) == 0 {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "This user is not subscribed to anybody.",
			StatusCode: http.StatusNotFound,
		}
	}

	authorIds := make([]domain.UserId, 0, len(user.Subscriptions))
	for _, s := range user.Subscriptions {
		authorIds = append(authorIds, s.TargetId)
	}

	blogs, lastPage, err := fetchPreviewPage(page, func(offset, limit int) ([]domain.BlogPreview, error) {
		return b.storage.BlogsByAuthors(authorIds, offset, limit)
	})
	if err != nil {
		return nil, false, err
	}
	if len(blogs) == 0 {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "None of your subscriptions have authored any blogs, yet.",
			StatusCode: http.StatusNotFound,
		}
	}
	return blogs, lastPage, nil
}

func (b *Blog) ByAuthor(authorId domain.UserId, page int) ([]domain.BlogPreview, bool, error) {
	blogs, lastPage, err := fetchPreviewPage(page, func(offset, limit int) ([]domain.BlogPreview, error) {
		return b.storage.BlogsByAuthor(authorId, offset, limit)
	})
	if err != nil {
		return nil, false, err
	}
	if len(blogs) == 0 {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "This user has no blogs.",
			StatusCode: http.StatusNotFound,
		}
	}
	return blogs, lastPage, nil
}

func (b *Blog) Comments(blogId domain.BlogId, page int) ([]domain.Comment, bool, error) {
	// 404 on a missing blog, even when its comment list would be empty.
	if _, err := b.storage.BlogById(blogId); err != nil {
		return nil, false, err
	}

	comments, lastPage, err := fetchPage(page, pagination.CommentsPerPage,
		func(offset, limit int) ([]domain.Comment, error) {
			return b.storage.Comments(blogId, offset, limit)
		})
	if err != nil {
		return nil, false, err
	}
	return comments, lastPage, nil
}

var errNotBlogAuthor = &errors.ErrorWithStatusCode{
	Message:    "You are not the author of this blog.",
	StatusCode: http.StatusForbidden,
}

// fetchPage fetches one overfetch window. A page beyond the end of a list
// that shrank since the client last looked comes back empty; in that case
// the fetch is retried at page 0 so the client self-heals instead of seeing
// a bare empty page. Callers that must report genuine emptiness (search)
// check the returned slice themselves.
func fetchPage[T any](page, perPage int, fetch func(offset, limit int) ([]T, error)) ([]T, bool, error) {
	w := pagination.WindowFor(page, perPage)
	items, err := fetch(w.Offset, w.Limit)
	if err != nil {
		return nil, false, err
	}

	if len(items) == 0 && page > 0 {
		w = pagination.WindowFor(0, perPage)
		if items, err = fetch(w.Offset, w.Limit); err != nil {
			return nil, false, err
		}
	}

	trimmed, lastPage := pagination.Trim(items, perPage)
	return trimmed, lastPage, nil
}

func fetchPreviewPage(page int, fetch func(offset, limit int) ([]domain.BlogPreview, error)) ([]domain.BlogPreview, bool, error) {
	return fetchPage(page, pagination.BlogsPerPage, fetch)
}
