package repository

import (
	"database/sql"
	"errors"

	"roadmapper/internal/models"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateUsername dikembalikan CreateUser saat username sudah ada.
var ErrDuplicateUsername = errors.New("username already taken")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// CreateUser menyimpan akun baru. password dan answer sudah berupa hash
// bcrypt (answer di-lowercase dulu oleh caller sebelum di-hash).
func CreateUser(db *sql.DB, username, passwordHash, question, answerHash string) (int, error) {
	var userID int
	err := db.QueryRow(
		rebind("INSERT INTO users (username, password, secret_question, secret_answer) VALUES ($1, $2, $3, $4) RETURNING id"),
		username, passwordHash, question, answerHash,
	).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return userID, nil
}

// GetUserByUsername mengembalikan sql.ErrNoRows jika username tidak ada.
// Caller yang memutuskan apakah itu 401 (login) atau 404 (forgot).
func GetUserByUsername(db *sql.DB, username string) (*models.User, error) {
	var user models.User
	err := db.QueryRow(
		rebind("SELECT id, username, password, secret_question, secret_answer, created_at FROM users WHERE username = $1"),
		username,
	).Scan(&user.ID, &user.Username, &user.Password, &user.SecretQuestion, &user.SecretAnswer, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(db *sql.DB, id int) (*models.User, error) {
	var user models.User
	err := db.QueryRow(
		rebind("SELECT id, username, password, secret_question, secret_answer, created_at FROM users WHERE id = $1"),
		id,
	).Scan(&user.ID, &user.Username, &user.Password, &user.SecretQuestion, &user.SecretAnswer, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword mengganti hash password, dipakai alur reset.
func UpdatePassword(db *sql.DB, userID int, passwordHash string) error {
	_, err := db.Exec(
		rebind("UPDATE users SET password = $1 WHERE id = $2"),
		passwordHash, userID,
	)
	return err
}
