package pg

import (
	"database/sql"
	"errors"

	"github.com/dailymd-dev/dailymd/internal/domain"
)

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password_hash, verify_id, verify_expires)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
		nullString(user.VerifyId), user.VerifyExpires,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, conflict("There is another user registered with this email address.")
		}
		return 0, err
	}
	return id, nil
}

func (s *Storage) UserById(id domain.UserId) (*domain.User, error) {
	return s.user("id = $1", id)
}

func (s *Storage) UserByEmail(emailAddress string) (*domain.User, error) {
	return s.user("email = $1", emailAddress)
}

func (s *Storage) user(where string, arg any) (*domain.User, error) {
	var u domain.User
	var verifyId sql.NullString
	var verifyExpires sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, first_name, last_name, email, password_hash, verified, verify_id, verify_expires, join_date
		FROM users WHERE `+where,
		arg,
	).Scan(&u.Id, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Verified, &verifyId, &verifyExpires, &u.JoinDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("User not found.")
		}
		return nil, err
	}
	u.VerifyId = verifyId.String
	u.VerifyExpires = verifyExpires.Time

	subs, err := s.Subscriptions(u.Id, 0, -1)
	if err != nil {
		return nil, err
	}
	u.Subscriptions = subs
	return &u, nil
}

// VerifyUser is the atomic find-and-update that consumes a verification id:
// the lookup and the clearing of the id happen in one statement, so the id
// is single-use even under concurrent submissions. Expired ids are treated
// as absent.
func (s *Storage) VerifyUser(verifyId string) (*domain.User, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
		UPDATE users
		SET verified = TRUE, verify_id = NULL, verify_expires = NULL
		WHERE verify_id = $1 AND verify_expires > now()
		RETURNING id`,
		verifyId,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("The verification ID submitted does not match any user.")
		}
		return nil, err
	}
	return s.UserById(id)
}

func (s *Storage) UpdatePassword(emailAddress, passwordHash string) error {
	res, err := s.db.Exec(`UPDATE users SET password_hash = $2 WHERE email = $1`, emailAddress, passwordHash)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("User not found.")
	}
	return nil
}

func (s *Storage) DeleteUser(id domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

func (s *Storage) AddSubscription(ownerId domain.UserId, sub domain.Subscription) error {
	_, err := s.db.Exec(`
		INSERT INTO subscriptions (owner_id, target_id, target_name)
		VALUES ($1, $2, $3)`,
		ownerId, sub.TargetId, sub.TargetName)
	if err != nil && isUniqueViolation(err) {
		return conflict("You are already subscribed to this user.")
	}
	return err
}

func (s *Storage) RemoveSubscription(ownerId, targetId domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM subscriptions WHERE owner_id = $1 AND target_id = $2`, ownerId, targetId)
	return err
}

// Subscriptions returns a window of the owner's subscription list in
// insertion order. limit < 0 means the whole list.
func (s *Storage) Subscriptions(ownerId domain.UserId, offset, limit int) ([]domain.Subscription, error) {
	query := `
		SELECT target_id, target_name FROM subscriptions
		WHERE owner_id = $1 ORDER BY created OFFSET $2`
	args := []any{ownerId, offset}
	if limit >= 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.TargetId, &sub.TargetName); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Storage) SubscriberIdsOf(targetId domain.UserId) ([]domain.UserId, error) {
	rows, err := s.db.Query(`SELECT owner_id FROM subscriptions WHERE target_id = $1`, targetId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []domain.UserId
	for rows.Next() {
		var id domain.UserId
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
