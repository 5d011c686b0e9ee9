package repositories

import (
	"database/sql"
	"time"

	"resto_backend/internal/models"
)

// AuthRepository defines the interface for user-account database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(executor SQLExecutor, user *models.User) error
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const userColumns = `id, username, password_hash, email, full_name, phone, role, photo_path,
	date_of_birth, hire_date, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }, user *models.User, hash *string) error {
	return row.Scan(
		&user.ID, &user.Username, hash, &user.Email, &user.FullName, &user.Phone, &user.Role,
		&user.PhotoPath, &user.DateOfBirth, &user.HireDate, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
}

// CreateUser inserts a new user. It expects an SQLExecutor which can be a
// *sql.DB or *sql.Tx.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, phone, role, photo_path,
	            date_of_birth, hire_date, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`

	now := time.Now()
	err := executor.QueryRow(query,
		user.Username, hashedPassword, user.Email, user.FullName, user.Phone, user.Role,
		user.PhotoPath, user.DateOfBirth, user.HireDate, true, now, now,
	).Scan(&user.ID)
	if err != nil {
		return 0, translateError(err, "creating user")
	}
	return user.ID, nil
}

// FindUserByUsername retrieves a user and their password hash by username.
func (r *authRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user := &models.User{}
	var hash string
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := scanUser(r.db.QueryRow(query, username), user, &hash); err != nil {
		return nil, "", translateError(err, "finding user by username")
	}
	return user, hash, nil
}

// FindUserByID retrieves a user by ID.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	user := &models.User{}
	var hash string
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := scanUser(r.db.QueryRow(query, userID), user, &hash); err != nil {
		return nil, translateError(err, "finding user by id")
	}
	return user, nil
}

// GetUsers lists all user accounts.
func (r *authRepository) GetUsers() ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "listing users")
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		var hash string
		if err := scanUser(rows, &user, &hash); err != nil {
			return nil, translateError(err, "scanning user")
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser updates profile fields, role and active flag.
func (r *authRepository) UpdateUser(executor SQLExecutor, user *models.User) error {
	query := `UPDATE users
	          SET email = $1, full_name = $2, phone = $3, role = $4, photo_path = $5,
	              date_of_birth = $6, is_active = $7, updated_at = $8
	          WHERE id = $9`
	res, err := executor.Exec(query,
		user.Email, user.FullName, user.Phone, user.Role, user.PhotoPath,
		user.DateOfBirth, user.IsActive, time.Now(), user.ID,
	)
	if err != nil {
		return translateError(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
