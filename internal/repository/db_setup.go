package repository

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
)

// driver diset sekali di startup lewat SetDriver; menentukan dialek DDL
// dan bentuk placeholder. Query ditulis dengan placeholder $n gaya
// PostgreSQL dan di-rebind ke '?' untuk SQLite.
var driver = "postgres"

var placeholderRe = regexp.MustCompile(`\$\d+`)

func SetDriver(name string) {
	driver = name
}

func rebind(query string) string {
	if driver != "sqlite3" {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    secret_question TEXT,
    secret_answer TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    color TEXT DEFAULT '#667eea',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    category_id INT REFERENCES categories (id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    notes TEXT,
    done BOOLEAN NOT NULL DEFAULT FALSE,
    done_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    secret_question TEXT,
    secret_answer TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    color TEXT DEFAULT '#667eea',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    category_id INTEGER REFERENCES categories (id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    notes TEXT,
    done BOOLEAN NOT NULL DEFAULT FALSE,
    done_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func CreateTableIfNotExists(db *sql.DB) {
	schema := schemaPostgres
	if driver == "sqlite3" {
		schema = schemaSQLite
	}

	_, err := db.Exec(schema)
	if err != nil {
		log.Fatalf("Error creating table: %v", err)
	} else {
		fmt.Println("Table 'users', 'categories', 'tasks' are ready.")
	}
}

func DeleteAllTable(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS categories;
    DROP TABLE IF EXISTS users;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error deleting table: %v", err)
	} else {
		fmt.Println("Table 'users', 'categories', 'tasks' are deleted.")
	}
}
