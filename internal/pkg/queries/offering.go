package queries

const offeringColumns = `
			po.provider_id, po.item_id, po.stock, po.is_available, po.price, po.received_at,
			po.expires_at, po.updated_at`

const (
	FindOfferingByKey = `
		SELECT ` + offeringColumns + `
		FROM provider_offerings po
		WHERE po.provider_id = $1 AND po.item_id = $2
	`

	FindOfferingsByProviderID = `
		SELECT ` + offeringColumns + `, p.name, c.name
		FROM provider_offerings po
		JOIN providers p ON p.id = po.provider_id
		JOIN catalog_items c ON c.id = po.item_id
		WHERE po.provider_id = $1
		ORDER BY c.name
	`

	// Haversine distance in kilometres; NULL when no reference point is given.
	FindNearbyOfferings = `
		SELECT * FROM (
			SELECT ` + offeringColumns + `, p.name AS provider_name, c.name AS item_name,
				CASE WHEN $2::float8 IS NULL OR $3::float8 IS NULL THEN NULL
				ELSE 6371 * 2 * ASIN(SQRT(
					POWER(SIN(RADIANS(p.latitude - $2::float8) / 2), 2) +
					COS(RADIANS($2::float8)) * COS(RADIANS(p.latitude)) *
					POWER(SIN(RADIANS(p.longitude - $3::float8) / 2), 2)
				)) END AS distance_km
			FROM provider_offerings po
			JOIN providers p ON p.id = po.provider_id
			JOIN catalog_items c ON c.id = po.item_id
			WHERE po.item_id = $1
				AND p.is_active
				AND p.verification_status = 'verified'
				AND ((po.stock IS NULL AND po.is_available) OR po.stock > 0)
		) nearby
		WHERE $4::float8 <= 0 OR distance_km IS NULL OR distance_km <= $4::float8
		ORDER BY distance_km NULLS LAST, price
	`

	UpsertOffering = `
		INSERT INTO provider_offerings (provider_id, item_id, stock, is_available, price, received_at, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider_id, item_id) DO UPDATE SET
			stock = EXCLUDED.stock,
			is_available = EXCLUDED.is_available,
			price = EXCLUDED.price,
			received_at = EXCLUDED.received_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	DeleteOffering = `DELETE FROM provider_offerings WHERE provider_id = $1 AND item_id = $2`

	// Conditional decrement; zero affected rows means the offering cannot cover the quantity.
	DecrementOfferingStock = `
		UPDATE provider_offerings SET
			stock = CASE WHEN stock IS NULL THEN NULL ELSE stock - $3 END,
			updated_at = NOW()
		WHERE provider_id = $1 AND item_id = $2
			AND ((stock IS NULL AND is_available) OR stock >= $3)
	`

	IncrementOfferingStock = `
		UPDATE provider_offerings SET stock = stock + $3, updated_at = NOW()
		WHERE provider_id = $1 AND item_id = $2 AND stock IS NOT NULL
	`
)
