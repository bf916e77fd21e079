package domain

import (
	"math"
	"time"
)

type BlogId = int64
type CommentId = int64

type Blog struct {
	Id       BlogId
	Author   string
	AuthorId UserId
	Title    string
	Body     string
	Keywords string
	PostDate time.Time
	Ratings  []Rating
	Comments []Comment
}

type Rating struct {
	RaterId UserId
	Score   int
}

type Comment struct {
	Id       CommentId `json:"commentId"`
	Author   string    `json:"author"`
	AuthorId UserId    `json:"authorId"`
	Body     string    `json:"comment"`
	PostDate time.Time `json:"postDate"`
}

// AverageRating is the mean score rounded to two decimals, 0 when unrated.
func (b *Blog) AverageRating() float64 {
	if len(b.Ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range b.Ratings {
		sum += r.Score
	}
	avg := float64(sum) / float64(len(b.Ratings))
	return math.Round(avg*100) / 100
}

// UserHasRated returns the score the user gave, 0 if they have not rated.
func (b *Blog) UserHasRated(userId UserId) int {
	for _, r := range b.Ratings {
		if r.RaterId == userId {
			return r.Score
		}
	}
	return 0
}

func (b *Blog) FindComment(commentId CommentId) *Comment {
	for i := range b.Comments {
		if b.Comments[i].Id == commentId {
			return &b.Comments[i]
		}
	}
	return nil
}

// BlogPreview is the list-endpoint projection of a blog.
type BlogPreview struct {
	BlogId        BlogId    `json:"blogId"`
	PostDate      time.Time `json:"postDate"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	AuthorId      UserId    `json:"authorId"`
	AverageRating float64   `json:"rating"`
	RatingCount   int       `json:"ratingCount"`
	CommentCount  int       `json:"commentCount"`
	Keywords      string    `json:"keywords"`
}
