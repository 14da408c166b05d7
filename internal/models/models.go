package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"`
	SecretQuestion string    `json:"secret_question"`
	SecretAnswer   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Category adalah "roadmap" di sisi user: grup task dengan warna tampilan.
type Category struct {
	ID          int            `json:"id"`
	UserID      int            `json:"user_id"`
	Name        string         `json:"name"`
	Description sql.NullString `json:"description"`
	Color       string         `json:"color"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Task struct {
	ID         int           `json:"id"`
	UserID     int           `json:"user_id"`
	CategoryID sql.NullInt64 `json:"category_id"`
	Title      string        `json:"title"`
	Notes      sql.NullString `json:"notes"`
	Done       bool          `json:"done"`
	DoneAt     sql.NullTime  `json:"done_at"`
	CreatedAt  time.Time     `json:"created_at"`
}

// TaskRow adalah Task yang sudah di-join dengan nama dan warna kategorinya
// untuk tampilan dashboard. CategoryName/CategoryColor NULL jika task
// tidak punya kategori (detached).
type TaskRow struct {
	Task
	CategoryName  sql.NullString `json:"category_name"`
	CategoryColor sql.NullString `json:"category_color"`
}
