package pg

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/dailymd-dev/dailymd/internal/domain"
)

const previewColumns = `
	b.id, b.post_date, b.title, b.author, b.author_id, b.keywords,
	COALESCE((SELECT ROUND(AVG(score)::numeric, 2) FROM blog_ratings WHERE blog_id = b.id), 0),
	(SELECT COUNT(*) FROM blog_ratings WHERE blog_id = b.id),
	(SELECT COUNT(*) FROM blog_comments WHERE blog_id = b.id)`

func (s *Storage) SaveBlog(blog domain.Blog) (domain.BlogId, error) {
	var id domain.BlogId
	err := s.db.QueryRow(`
		INSERT INTO blogs (author, author_id, title, body, keywords)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		blog.Author, blog.AuthorId, blog.Title, blog.Body, blog.Keywords,
	).Scan(&id)
	return id, err
}

func (s *Storage) BlogById(id domain.BlogId) (*domain.Blog, error) {
	var b domain.Blog
	err := s.db.QueryRow(`
		SELECT id, author, author_id, title, body, keywords, post_date
		FROM blogs WHERE id = $1`,
		id,
	).Scan(&b.Id, &b.Author, &b.AuthorId, &b.Title, &b.Body, &b.Keywords, &b.PostDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("The blog requested was not found.")
		}
		return nil, err
	}

	ratings, err := s.ratings(id)
	if err != nil {
		return nil, err
	}
	b.Ratings = ratings

	comments, err := s.Comments(id, 0, -1)
	if err != nil {
		return nil, err
	}
	b.Comments = comments

	return &b, nil
}

func (s *Storage) UpdateBlog(id domain.BlogId, title, body string) error {
	res, err := s.db.Exec(`UPDATE blogs SET title = $2, body = $3 WHERE id = $1`, id, title, body)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("The blog requested was not found.")
	}
	return nil
}

func (s *Storage) DeleteBlog(id domain.BlogId) error {
	_, err := s.db.Exec(`DELETE FROM blogs WHERE id = $1`, id)
	return err
}

func (s *Storage) DeleteBlogsByAuthor(authorId domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM blogs WHERE author_id = $1`, authorId)
	return err
}

func (s *Storage) BlogCountByAuthor(authorId domain.UserId) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs WHERE author_id = $1`, authorId).Scan(&count)
	return count, err
}

func (s *Storage) RecentBlogs(offset, limit int) ([]domain.BlogPreview, error) {
	return s.previews(`
		SELECT `+previewColumns+`
		FROM blogs b
		ORDER BY b.post_date DESC OFFSET $1 LIMIT $2`,
		offset, limit)
}

// SearchBlogs matches the submitted keywords against the blog's keyword
// field via the full-text index.
func (s *Storage) SearchBlogs(keywords string, offset, limit int) ([]domain.BlogPreview, error) {
	return s.previews(`
		SELECT `+previewColumns+`
		FROM blogs b
		WHERE to_tsvector('english', b.keywords) @@ plainto_tsquery('english', $1)
		ORDER BY b.post_date DESC OFFSET $2 LIMIT $3`,
		keywords, offset, limit)
}

func (s *Storage) BlogsByAuthor(authorId domain.UserId, offset, limit int) ([]domain.BlogPreview, error) {
	return s.previews(`
		SELECT `+previewColumns+`
		FROM blogs b
		WHERE b.author_id = $1
		ORDER BY b.post_date DESC OFFSET $2 LIMIT $3`,
		authorId, offset, limit)
}

func (s *Storage) BlogsByAuthors(authorIds []domain.UserId, offset, limit int) ([]domain.BlogPreview, error) {
	return s.previews(`
		SELECT `+previewColumns+`
		FROM blogs b
		WHERE b.author_id = ANY($1)
		ORDER BY b.post_date DESC OFFSET $2 LIMIT $3`,
		pq.Array(authorIds), offset, limit)
}

func (s *Storage) previews(query string, args ...any) ([]domain.BlogPreview, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var previews []domain.BlogPreview
	for rows.Next() {
		var p domain.BlogPreview
		err := rows.Scan(&p.BlogId, &p.PostDate, &p.Title, &p.Author, &p.AuthorId,
			&p.Keywords, &p.AverageRating, &p.RatingCount, &p.CommentCount)
		if err != nil {
			return nil, err
		}
		previews = append(previews, p)
	}
	return previews, rows.Err()
}

func (s *Storage) ratings(blogId domain.BlogId) ([]domain.Rating, error) {
	rows, err := s.db.Query(`SELECT rater_id, score FROM blog_ratings WHERE blog_id = $1`, blogId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var r domain.Rating
		if err := rows.Scan(&r.RaterId, &r.Score); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *Storage) AddRating(blogId domain.BlogId, rating domain.Rating) error {
	_, err := s.db.Exec(`
		INSERT INTO blog_ratings (blog_id, rater_id, score) VALUES ($1, $2, $3)`,
		blogId, rating.RaterId, rating.Score)
	if err != nil && isUniqueViolation(err) {
		return conflict("You already rated this blog.")
	}
	return err
}

func (s *Storage) AddComment(blogId domain.BlogId, comment domain.Comment) (domain.CommentId, error) {
	var id domain.CommentId
	err := s.db.QueryRow(`
		INSERT INTO blog_comments (blog_id, author, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		blogId, comment.Author, comment.AuthorId, comment.Body,
	).Scan(&id)
	return id, err
}

// Comments returns a newest-first window of a blog's comments. limit < 0
// means all of them.
func (s *Storage) Comments(blogId domain.BlogId, offset, limit int) ([]domain.Comment, error) {
	query := `
		SELECT id, author, author_id, body, post_date FROM blog_comments
		WHERE blog_id = $1 ORDER BY post_date DESC OFFSET $2`
	args := []any{blogId, offset}
	if limit >= 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.Id, &c.Author, &c.AuthorId, &c.Body, &c.PostDate); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Storage) RemoveComment(blogId domain.BlogId, commentId domain.CommentId) error {
	_, err := s.db.Exec(`DELETE FROM blog_comments WHERE blog_id = $1 AND id = $2`, blogId, commentId)
	return err
}

func (s *Storage) RemoveCommentsByAuthor(blogId domain.BlogId, authorId domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM blog_comments WHERE blog_id = $1 AND author_id = $2`, blogId, authorId)
	return err
}

func (s *Storage) BlogIdsCommentedBy(authorId domain.UserId) ([]domain.BlogId, error) {
	rows, err := s.db.Query(`SELECT DISTINCT blog_id FROM blog_comments WHERE author_id = $1`, authorId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []domain.BlogId
	for rows.Next() {
		var id domain.BlogId
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
