package queries

const providerColumns = `
			id, name, kind, latitude, longitude, address, state, lga, ward, verification_status,
			is_active, supports_delivery, supports_home_collection, operating_hours, email, phone,
			created_at, updated_at`

const (
	InsertProvider = `
		INSERT INTO providers (` + providerColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17
		)
	`

	FindProviderByID = `
		SELECT ` + providerColumns + `
		FROM providers
		WHERE id = $1
	`

	FindProvidersByIDs = `
		SELECT ` + providerColumns + `
		FROM providers
		WHERE id = ANY($1)
	`

	UpdateProvider = `
		UPDATE providers SET
			name = $2,
			verification_status = $3,
			is_active = $4,
			supports_delivery = $5,
			supports_home_collection = $6,
			operating_hours = $7,
			updated_at = $8
		WHERE id = $1
	`

	UpsertDeviceToken = `
		INSERT INTO provider_device_tokens (token, provider_id, platform, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (token) DO UPDATE SET
			provider_id = EXCLUDED.provider_id,
			platform = EXCLUDED.platform,
			updated_at = EXCLUDED.updated_at
	`

	FindDeviceTokensByProviderID = `
		SELECT provider_id, token, platform, created_at, updated_at
		FROM provider_device_tokens
		WHERE provider_id = $1
		ORDER BY updated_at DESC
	`
)
