package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/homestead/homestead-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, first_name, team, discord_id, convertkit_id, created_at, updated_at`

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, first_name, team) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.FirstName, user.Team)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateFirstName changes a user's display name.
func (r *UserRepository) UpdateFirstName(ctx context.Context, id int64, firstName string) error {
	return r.exec(ctx, `UPDATE users SET first_name = ? WHERE id = ?`, firstName, id)
}

// SetDiscordID records a linked external Discord member id on the user.
func (r *UserRepository) SetDiscordID(ctx context.Context, id int64, discordID string) error {
	return r.exec(ctx, `UPDATE users SET discord_id = ? WHERE id = ?`, discordID, id)
}

// ClearDiscordID removes the linked Discord member id.
func (r *UserRepository) ClearDiscordID(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE users SET discord_id = '' WHERE id = ?`, id)
}

// SetConvertKitID records the mailing-list subscriber id on the user.
func (r *UserRepository) SetConvertKitID(ctx context.Context, id int64, convertKitID string) error {
	return r.exec(ctx, `UPDATE users SET convertkit_id = ? WHERE id = ?`, convertKitID, id)
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is zero both for a missing row and for a no-op
		// update; confirm the user exists before reporting not found.
		if _, err := r.GetByID(ctx, args[len(args)-1].(int64)); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.Team,
		&user.DiscordID, &user.ConvertKitID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
