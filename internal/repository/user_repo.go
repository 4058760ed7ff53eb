package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskplanner/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (email, username, password_hash, full_name, created_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`
	selectUserSQL           = `SELECT id, email, username, password_hash, full_name, created_at, is_active FROM users`
	selectUserByUsernameSQL = selectUserSQL + ` WHERE username = ?`
	selectUserByEmailSQL    = selectUserSQL + ` WHERE email = ?`
	selectUserByIDSQL       = selectUserSQL + ` WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(u models.User) (int, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.db.Exec(insertUserSQL, u.Email, u.Username, u.PasswordHash, u.FullName, createdAt.UTC(), u.IsActive)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne(selectUserByUsernameSQL, username)
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(selectUserByEmailSQL, email)
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	return r.getOne(selectUserByIDSQL, id)
}

func (r *UserRepository) getOne(query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user by %v: %w", arg, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
