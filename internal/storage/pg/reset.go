package pg

import (
	"database/sql"
	"errors"

	"github.com/dailymd-dev/dailymd/internal/domain"
)

// SaveReset stores a fresh reset token. A row left behind by an expired
// token for the same address is cleared first; a live one surfaces as the
// unique violation and is translated to a conflict.
func (s *Storage) SaveReset(t domain.PasswordReset) error {
	if _, err := s.db.Exec(`
		DELETE FROM password_resets WHERE email = $1 AND expires <= now()`,
		t.Email); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO password_resets (email, link_id, code_hash, authenticated, spent, created, expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.Email, t.LinkId, t.CodeHash, t.Authenticated, t.Spent, t.Created, t.Expires)
	if err != nil && isUniqueViolation(err) {
		return conflict("Another password reset token was issued for you recently. Try again later.")
	}
	return err
}

func (s *Storage) LiveResetByEmail(emailAddress string) (*domain.PasswordReset, error) {
	return s.reset(`email = $1 AND expires > now()`, emailAddress)
}

// ResetByLink treats tokens past their expiry horizon as absent: a token is
// logically dead once the horizon elapses even if it was never spent.
func (s *Storage) ResetByLink(linkId string) (*domain.PasswordReset, error) {
	return s.reset(`link_id = $1 AND expires > now()`, linkId)
}

func (s *Storage) reset(where string, arg any) (*domain.PasswordReset, error) {
	var t domain.PasswordReset
	err := s.db.QueryRow(`
		SELECT email, link_id, code_hash, authenticated, spent, created, expires
		FROM password_resets WHERE `+where,
		arg,
	).Scan(&t.Email, &t.LinkId, &t.CodeHash, &t.Authenticated, &t.Spent, &t.Created, &t.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Password reset token not found.")
		}
		return nil, err
	}
	return &t, nil
}

func (s *Storage) MarkResetAuthenticated(linkId string) error {
	res, err := s.db.Exec(`
		UPDATE password_resets SET authenticated = TRUE
		WHERE link_id = $1 AND expires > now()`,
		linkId)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("Password reset token not found.")
	}
	return nil
}

func (s *Storage) MarkResetSpent(linkId string) error {
	res, err := s.db.Exec(`
		UPDATE password_resets SET spent = TRUE
		WHERE link_id = $1 AND expires > now()`,
		linkId)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("Password reset token not found.")
	}
	return nil
}

func (s *Storage) DeleteReset(linkId string) error {
	_, err := s.db.Exec(`DELETE FROM password_resets WHERE link_id = $1`, linkId)
	return err
}
