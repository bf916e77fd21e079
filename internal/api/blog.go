package api

import "github.com/dailymd-dev/dailymd/internal/domain"

type CreateBlogRequest struct {
	Title    string `validate:"required" json:"title"`
	Body     string `validate:"required" json:"body"`
	Keywords string `validate:"required" json:"keywords"`
}

type UpdateBlogRequest struct {
	Title string `validate:"required" json:"title"`
	Body  string `validate:"required" json:"body"`
}

type RateBlogRequest struct {
	Score int `validate:"required" json:"score"`
}

type PostCommentRequest struct {
	Comment string `validate:"required" json:"comment"`
}

type BlogResponse struct {
	BlogId       domain.BlogId `json:"blogId"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	AuthorId     domain.UserId `json:"authorId"`
	PostDate     string        `json:"postDate"`
	Rating       float64       `json:"rating"`
	RatingCount  int           `json:"ratingCount"`
	CommentCount int           `json:"commentCount"`
	Body         string        `json:"body"`
	Keywords     string        `json:"keywords"`
}

type BlogListResponse struct {
	Blogs    []domain.BlogPreview `json:"blogs"`
	LastPage bool                 `json:"lastPage"`
}

type CommentListResponse struct {
	Comments []domain.Comment `json:"comments"`
	LastPage bool             `json:"lastPage"`
}
