package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		email_verified BOOLEAN NOT NULL DEFAULT false,
		is_banned BOOLEAN NOT NULL DEFAULT false,
		is_admin BOOLEAN NOT NULL DEFAULT false,
		name TEXT,
		phone TEXT,
		gender TEXT,
		volunteering TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createModeratorTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE moderators (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT true,
		assigned_regions TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE moderator_seed_claims (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL,
		claimed_at DATETIME
	);`)
}

func createOtpTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE otp_tokens (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		code TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		used BOOLEAN NOT NULL DEFAULT false,
		created_at DATETIME
	);`)
}

func createSessionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		last_accessed_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE moderator_sessions (
		id TEXT PRIMARY KEY,
		moderator_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		last_accessed_at DATETIME
	);`)
}

func createAuthTables(t *testing.T, db *gorm.DB) {
	createUserTable(t, db)
	createModeratorTables(t, db)
	createOtpTokenTable(t, db)
	createSessionTables(t, db)
}
