package repository

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"roadmapper/internal/importer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	// SQLite in-memory: satu koneksi supaya database tidak hilang
	// di tengah test, foreign key diaktifkan agar ON DELETE SET NULL
	// benar-benar jalan
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_foreign_keys=on")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)

	SetDriver("sqlite3")
	testDB = db
	CreateTableIfNotExists(testDB)

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

func mustCreateUser(t *testing.T, username string) int {
	t.Helper()
	id, err := CreateUser(testDB, username, "hashed-password", "Favorite color?", "hashed-answer")
	require.NoError(t, err)
	return id
}

func TestCreateUserDuplicate(t *testing.T) {
	id := mustCreateUser(t, "alice")

	_, err := CreateUser(testDB, "alice", "other-hash", "Q2?", "other-answer")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	// Akun pertama tidak berubah
	user, err := GetUserByUsername(testDB, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hashed-password", user.Password)
	assert.Equal(t, "Favorite color?", user.SecretQuestion)
}

func TestUsernameCaseSensitive(t *testing.T) {
	mustCreateUser(t, "Bob")

	// Pencocokan username exact case-sensitive: "bob" adalah akun lain
	_, err := CreateUser(testDB, "bob", "hash", "Q?", "ans")
	require.NoError(t, err)

	_, err = GetUserByUsername(testDB, "BOB")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdatePassword(t *testing.T) {
	id := mustCreateUser(t, "carol")

	require.NoError(t, UpdatePassword(testDB, id, "new-hash"))

	user, err := GetUserByID(testDB, id)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.Password)
}

func TestCategoryDefaultColor(t *testing.T) {
	userID := mustCreateUser(t, "dave")

	catID, err := CreateCategory(testDB, userID, "Reading", "books to finish", "")
	require.NoError(t, err)

	categories, err := ListCategories(testDB, userID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, catID, categories[0].ID)
	assert.Equal(t, "#667eea", categories[0].Color)
}

func TestListCategoriesSortedByName(t *testing.T) {
	userID := mustCreateUser(t, "erin")

	_, err := CreateCategory(testDB, userID, "Zeta", "", "#111111")
	require.NoError(t, err)
	_, err = CreateCategory(testDB, userID, "Alpha", "", "#222222")
	require.NoError(t, err)

	categories, err := ListCategories(testDB, userID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Alpha", categories[0].Name)
	assert.Equal(t, "Zeta", categories[1].Name)
}

func TestAuthorizeTaskOwnership(t *testing.T) {
	owner := mustCreateUser(t, "frank")
	intruder := mustCreateUser(t, "grace")

	taskID, err := CreateTask(testDB, owner, "secret task", "", nil)
	require.NoError(t, err)

	assert.NoError(t, AuthorizeTask(testDB, taskID, owner))
	assert.ErrorIs(t, AuthorizeTask(testDB, taskID, intruder), ErrForbidden)
	assert.ErrorIs(t, AuthorizeTask(testDB, 999999, owner), ErrNotFound)
}

func TestAuthorizeCategoryOwnership(t *testing.T) {
	owner := mustCreateUser(t, "heidi")
	intruder := mustCreateUser(t, "ivan")

	catID, err := CreateCategory(testDB, owner, "Private", "", "")
	require.NoError(t, err)

	assert.NoError(t, AuthorizeCategory(testDB, catID, owner))
	assert.ErrorIs(t, AuthorizeCategory(testDB, catID, intruder), ErrForbidden)
	assert.ErrorIs(t, AuthorizeCategory(testDB, 999999, owner), ErrNotFound)
}

// done_at ditulis ulang pada setiap panggilan mark-done: idempoten pada
// kolom done saja, bukan pada done_at.
func TestSetTaskDoneRefreshesDoneAt(t *testing.T) {
	userID := mustCreateUser(t, "judy")

	taskID, err := CreateTask(testDB, userID, "repeatable", "", nil)
	require.NoError(t, err)

	require.NoError(t, SetTaskDone(testDB, taskID, true))
	first, err := GetTask(testDB, taskID)
	require.NoError(t, err)
	require.True(t, first.Done)
	require.True(t, first.DoneAt.Valid)

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, SetTaskDone(testDB, taskID, true))
	second, err := GetTask(testDB, taskID)
	require.NoError(t, err)
	assert.True(t, second.Done)
	require.True(t, second.DoneAt.Valid)
	assert.True(t, second.DoneAt.Time.After(first.DoneAt.Time))

	// Unmark mengosongkan done_at
	require.NoError(t, SetTaskDone(testDB, taskID, false))
	cleared, err := GetTask(testDB, taskID)
	require.NoError(t, err)
	assert.False(t, cleared.Done)
	assert.False(t, cleared.DoneAt.Valid)
}

func TestListTasksOpenFirst(t *testing.T) {
	userID := mustCreateUser(t, "karl")

	doneID, err := CreateTask(testDB, userID, "finished", "", nil)
	require.NoError(t, err)
	openID, err := CreateTask(testDB, userID, "pending", "", nil)
	require.NoError(t, err)
	require.NoError(t, SetTaskDone(testDB, doneID, true))

	tasks, err := ListTasks(testDB, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, openID, tasks[0].ID)
	assert.Equal(t, doneID, tasks[1].ID)
}

func TestListTasksJoinsCategory(t *testing.T) {
	userID := mustCreateUser(t, "laura")

	catID, err := CreateCategory(testDB, userID, "Joined", "", "#abcdef")
	require.NoError(t, err)
	_, err = CreateTask(testDB, userID, "with category", "", &catID)
	require.NoError(t, err)
	_, err = CreateTask(testDB, userID, "without category", "", nil)
	require.NoError(t, err)

	tasks, err := ListTasks(testDB, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	for _, task := range tasks {
		if task.Title == "with category" {
			assert.Equal(t, "Joined", task.CategoryName.String)
			assert.Equal(t, "#abcdef", task.CategoryColor.String)
		} else {
			assert.False(t, task.CategoryName.Valid)
		}
	}
}

// Menghapus roadmap melepas task di dalamnya, tidak menghapusnya.
func TestDeleteCategoryDetachesTasks(t *testing.T) {
	userID := mustCreateUser(t, "mallory")

	catID, err := CreateCategory(testDB, userID, "Doomed", "", "")
	require.NoError(t, err)
	taskID, err := CreateTask(testDB, userID, "survivor", "", &catID)
	require.NoError(t, err)

	require.NoError(t, DeleteCategory(testDB, catID))

	task, err := GetTask(testDB, taskID)
	require.NoError(t, err)
	assert.False(t, task.CategoryID.Valid)
	assert.Equal(t, "survivor", task.Title)
}

func TestBulkImport(t *testing.T) {
	userID := mustCreateUser(t, "niaj")

	groups := []importer.Group{
		{Name: "Web Dev", Tasks: []string{"HTML", "CSS", "JS"}},
		{Name: "Fitness", Tasks: []string{"Run"}},
		{Name: "Empty", Tasks: []string{}},
	}

	tasksImported, roadmaps, err := BulkImport(testDB, userID, groups)
	require.NoError(t, err)
	assert.Equal(t, 4, tasksImported)
	assert.Equal(t, 3, roadmaps)

	categories, err := ListCategories(testDB, userID)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	tasks, err := ListTasks(testDB, userID)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)

	// Warna kategori hasil import diambil dari palette
	for _, c := range categories {
		assert.NotEmpty(t, c.Color)
	}
}
