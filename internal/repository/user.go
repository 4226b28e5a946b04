package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"tasktracker/internal/models"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrNotFound          = errors.New("not found")
)

// UserRepo is the credential store.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(username, passwordHash, recoveryKey string) (*models.User, error) {
	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		RecoveryKey:  recoveryKey,
	}
	err := r.db.QueryRow(
		"INSERT INTO users (username, password, recovery_key) VALUES ($1, $2, $3) RETURNING id",
		username, passwordHash, recoveryKey,
	).Scan(&user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(username string) (*models.User, error) {
	row := r.db.QueryRow(
		`SELECT id, username, password, recovery_key, full_name, email, profession, age
		 FROM users WHERE username = $1`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepo) FindByID(userID int) (*models.User, error) {
	row := r.db.QueryRow(
		`SELECT id, username, password, recovery_key, full_name, email, profession, age
		 FROM users WHERE id = $1`,
		userID,
	)
	return scanUser(row)
}

func (r *UserRepo) UpdatePassword(userID int, newHash string) error {
	_, err := r.db.Exec(
		"UPDATE users SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		newHash, userID,
	)
	return err
}

// UpdateProfile applies a partial update. NULL arguments fall through to the
// stored value via COALESCE; supplied values overwrite, including empty
// strings and age 0.
func (r *UserRepo) UpdateProfile(userID int, patch models.ProfilePatch) (*models.User, error) {
	_, err := r.db.Exec(`
		UPDATE users
		SET full_name  = COALESCE($1, full_name),
			email      = COALESCE($2, email),
			profession = COALESCE($3, profession),
			age        = COALESCE($4, age),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`,
		patch.FullName, patch.Email, patch.Profession, patch.Age, userID,
	)
	if err != nil {
		return nil, err
	}
	return r.FindByID(userID)
}

// Delete removes the user and all of their tasks in one transaction. The
// schema has no ON DELETE CASCADE; the cascade is explicit here.
func (r *UserRepo) Delete(userID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tasks WHERE user_id = $1", userID); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.Exec("DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	return tx.Commit()
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.RecoveryKey,
		&user.FullName, &user.Email, &user.Profession, &user.Age,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
