package handler

import (
	"net/http"
	"time"

	"github.com/dailymd-dev/dailymd/internal/api"
	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/utils"
)

func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.CreateBlogRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.blogs.Create(claims.UserId, req.Title, req.Body, req.Keywords); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.MessageResponse{Message: "Your blog was published."})
}

func (h *Handler) ViewBlog(w http.ResponseWriter, r *http.Request) {
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	blog, err := h.blogs.Fetch(blogId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.BlogResponse{
		BlogId:       blog.Id,
		Title:        blog.Title,
		Author:       blog.Author,
		AuthorId:     blog.AuthorId,
		PostDate:     blog.PostDate.Format(time.RFC3339),
		Rating:       blog.AverageRating(),
		RatingCount:  len(blog.Ratings),
		CommentCount: len(blog.Comments),
		Body:         blog.Body,
		Keywords:     blog.Keywords,
	})
}

func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.UpdateBlogRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.blogs.Update(claims.UserId, blogId, req.Title, req.Body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your blog was updated."})
}

func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.blogs.Delete(claims.UserId, blogId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your blog was deleted."})
}

func (h *Handler) RateBlog(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.RateBlogRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.blogs.Rate(claims.UserId, blogId, req.Score); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your rating was recorded."})
}

func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.PostCommentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.blogs.Comment(claims.UserId, blogId, req.Comment); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.MessageResponse{Message: "Your comment was posted."})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	commentId, err := idParam(r, "commentId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.blogs.RemoveComment(claims.UserId, blogId, commentId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your comment was deleted."})
}

func (h *Handler) RecentBlogs(w http.ResponseWriter, r *http.Request) {
	h.writeBlogList(w, func(page int) ([]domain.BlogPreview, bool, error) {
		return h.blogs.Recent(page)
	}, pageParam(r))
}

func (h *Handler) SearchBlogs(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query().Get("keywords")
	h.writeBlogList(w, func(page int) ([]domain.BlogPreview, bool, error) {
		return h.blogs.Search(keywords, page)
	}, pageParam(r))
}

func (h *Handler) SubscriptionFeed(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.writeBlogList(w, func(page int) ([]domain.BlogPreview, bool, error) {
		return h.blogs.SubscriptionFeed(claims.UserId, page)
	}, pageParam(r))
}

func (h *Handler) BlogsByAuthor(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "userId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.writeBlogList(w, func(page int) ([]domain.BlogPreview, bool, error) {
		return h.blogs.ByAuthor(userId, page)
	}, pageParam(r))
}

func (h *Handler) BlogComments(w http.ResponseWriter, r *http.Request) {
	blogId, err := idParam(r, "blogId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comments, lastPage, err := h.blogs.Comments(blogId, pageParam(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.CommentListResponse{Comments: comments, LastPage: lastPage})
}

func (h *Handler) writeBlogList(w http.ResponseWriter, list func(page int) ([]domain.BlogPreview, bool, error), page int) {
	blogs, lastPage, err := list(page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.BlogListResponse{Blogs: blogs, LastPage: lastPage})
}
