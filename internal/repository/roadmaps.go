package repository

import (
	"database/sql"
	"errors"
	"time"

	"roadmapper/internal/importer"
	"roadmapper/internal/models"
	"roadmapper/internal/themes"
)

var (
	// ErrNotFound: entitas tidak ada sama sekali.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: entitas ada tapi bukan milik akun pemanggil.
	// Dibedakan dari ErrNotFound supaya pelanggaran ownership bisa
	// di-log sebagai event security, bukan no-op diam-diam.
	ErrForbidden = errors.New("forbidden")
)

func CreateCategory(db *sql.DB, userID int, name, description, color string) (int, error) {
	if color == "" {
		color = themes.DefaultColor
	}
	var id int
	err := db.QueryRow(
		rebind("INSERT INTO categories (user_id, name, description, color) VALUES ($1, $2, $3, $4) RETURNING id"),
		userID, name, description, color,
	).Scan(&id)
	return id, err
}

func ListCategories(db *sql.DB, userID int) ([]models.Category, error) {
	rows, err := db.Query(
		rebind("SELECT id, user_id, name, description, color, created_at FROM categories WHERE user_id = $1 ORDER BY name"),
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// AuthorizeCategory memuat pemilik kategori lalu membandingkan dengan
// userID pemanggil. Langkah otorisasi eksplisit, bukan WHERE tersembunyi.
func AuthorizeCategory(db *sql.DB, categoryID, userID int) error {
	var owner int
	err := db.QueryRow(rebind("SELECT user_id FROM categories WHERE id = $1"), categoryID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

// DeleteCategory menghapus kategori; task di dalamnya dilepas (category_id
// jadi NULL lewat ON DELETE SET NULL), tidak ikut terhapus.
// Caller wajib memanggil AuthorizeCategory dulu.
func DeleteCategory(db *sql.DB, categoryID int) error {
	_, err := db.Exec(rebind("DELETE FROM categories WHERE id = $1"), categoryID)
	return err
}

// CreateTask menyimpan task baru. categoryID nil berarti tanpa kategori;
// kepemilikan kategori sudah diverifikasi caller.
func CreateTask(db *sql.DB, userID int, title, notes string, categoryID *int) (int, error) {
	var id int
	var cat interface{}
	if categoryID != nil {
		cat = *categoryID
	}
	err := db.QueryRow(
		rebind("INSERT INTO tasks (user_id, title, notes, category_id) VALUES ($1, $2, $3, $4) RETURNING id"),
		userID, title, notes, cat,
	).Scan(&id)
	return id, err
}

// ListTasks mengembalikan task milik userID, task yang belum selesai
// duluan, lalu yang terbaru di atas. Nama dan warna kategori ikut
// di-join untuk dashboard.
func ListTasks(db *sql.DB, userID int) ([]models.TaskRow, error) {
	rows, err := db.Query(
		rebind(`SELECT t.id, t.user_id, t.category_id, t.title, t.notes, t.done, t.done_at, t.created_at,
		               c.name, c.color
		        FROM tasks t
		        LEFT JOIN categories c ON t.category_id = c.id
		        WHERE t.user_id = $1
		        ORDER BY t.done, t.created_at DESC`),
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.TaskRow{}
	for rows.Next() {
		var t models.TaskRow
		err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Notes, &t.Done, &t.DoneAt, &t.CreatedAt,
			&t.CategoryName, &t.CategoryColor)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func GetTask(db *sql.DB, taskID int) (*models.Task, error) {
	var t models.Task
	err := db.QueryRow(
		rebind("SELECT id, user_id, category_id, title, notes, done, done_at, created_at FROM tasks WHERE id = $1"),
		taskID,
	).Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Notes, &t.Done, &t.DoneAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// AuthorizeTask: load-then-compare, sama seperti AuthorizeCategory.
func AuthorizeTask(db *sql.DB, taskID, userID int) error {
	var owner int
	err := db.QueryRow(rebind("SELECT user_id FROM tasks WHERE id = $1"), taskID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

// SetTaskDone menandai selesai/belum. done=true selalu menulis ulang
// done_at dengan waktu sekarang, jadi pemanggilan berulang menggeser
// done_at (idempoten hanya pada kolom done).
func SetTaskDone(db *sql.DB, taskID int, done bool) error {
	if done {
		_, err := db.Exec(
			rebind("UPDATE tasks SET done = TRUE, done_at = $1 WHERE id = $2"),
			time.Now().UTC(), taskID,
		)
		return err
	}
	_, err := db.Exec(rebind("UPDATE tasks SET done = FALSE, done_at = NULL WHERE id = $1"), taskID)
	return err
}

func UpdateTask(db *sql.DB, taskID int, title, notes string, categoryID *int) error {
	var cat interface{}
	if categoryID != nil {
		cat = *categoryID
	}
	_, err := db.Exec(
		rebind("UPDATE tasks SET title = $1, notes = $2, category_id = $3 WHERE id = $4"),
		title, notes, cat, taskID,
	)
	return err
}

// DeleteTask menghapus task. Caller wajib memanggil AuthorizeTask dulu.
func DeleteTask(db *sql.DB, taskID int) error {
	_, err := db.Exec(rebind("DELETE FROM tasks WHERE id = $1"), taskID)
	return err
}

// BulkImport menulis semua grup hasil parse dalam SATU transaksi:
// satu insert kategori (warna acak dari palette) plus satu insert per
// task. Gagal di tengah berarti tidak ada yang tersimpan.
func BulkImport(db *sql.DB, userID int, groups []importer.Group) (tasksImported, roadmaps int, err error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, group := range groups {
		var categoryID int
		err = tx.QueryRow(
			rebind("INSERT INTO categories (user_id, name, color) VALUES ($1, $2, $3) RETURNING id"),
			userID, group.Name, themes.RandomColor(),
		).Scan(&categoryID)
		if err != nil {
			return 0, 0, err
		}
		roadmaps++

		for _, title := range group.Tasks {
			_, err = tx.Exec(
				rebind("INSERT INTO tasks (user_id, title, category_id) VALUES ($1, $2, $3)"),
				userID, title, categoryID,
			)
			if err != nil {
				return 0, 0, err
			}
			tasksImported++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return tasksImported, roadmaps, nil
}
