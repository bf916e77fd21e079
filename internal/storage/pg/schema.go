package pg

// ensureSchema creates the tables on first start. Deployments with a real
// migration pipeline can run this once and version changes separately.
func (s *Storage) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			verify_id TEXT,
			verify_expires TIMESTAMPTZ,
			join_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id BIGINT NOT NULL,
			target_name TEXT NOT NULL,
			created TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner_id, target_id)
		)`,
		`CREATE TABLE IF NOT EXISTS blogs (
			id BIGSERIAL PRIMARY KEY,
			author TEXT NOT NULL,
			author_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			keywords TEXT NOT NULL,
			post_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS blogs_keywords_idx
			ON blogs USING GIN (to_tsvector('english', keywords))`,
		`CREATE INDEX IF NOT EXISTS blogs_post_date_idx ON blogs (post_date DESC)`,
		`CREATE TABLE IF NOT EXISTS blog_ratings (
			blog_id BIGINT NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
			rater_id BIGINT NOT NULL,
			score INT NOT NULL,
			PRIMARY KEY (blog_id, rater_id)
		)`,
		`CREATE TABLE IF NOT EXISTS blog_comments (
			id BIGSERIAL PRIMARY KEY,
			blog_id BIGINT NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
			author TEXT NOT NULL,
			author_id BIGINT NOT NULL,
			body TEXT NOT NULL,
			post_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS password_resets (
			email TEXT PRIMARY KEY,
			link_id TEXT NOT NULL UNIQUE,
			code_hash TEXT NOT NULL,
			authenticated BOOLEAN NOT NULL DEFAULT FALSE,
			spent BOOLEAN NOT NULL DEFAULT FALSE,
			created TIMESTAMPTZ NOT NULL DEFAULT now(),
			expires TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
