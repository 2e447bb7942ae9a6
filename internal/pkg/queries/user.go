package queries

const userColumns = `
			id, email, password_hash, full_name, role, provider_id, is_active, created_at, updated_at`

const (
	// Insert Queries
	InsertUser = `
		INSERT INTO users (` + userColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $8
		)
	`

	// Select Queries
	FindUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	FindUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	FindUsers = `
		SELECT ` + userColumns + `
		FROM users
		WHERE $1 = '' OR role = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	CountUsers = `SELECT COUNT(*) FROM users WHERE $1 = '' OR role = $1`

	// Update Queries
	UpdateUserActive = `
		UPDATE users SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`
)
