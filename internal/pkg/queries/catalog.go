package queries

const catalogItemColumns = `
			id, name, kind, category, prescription_required, strength, dosage_form, description,
			created_at, updated_at`

const (
	InsertCatalogItem = `
		INSERT INTO catalog_items (` + catalogItemColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $9
		)
	`

	FindCatalogItemByID = `
		SELECT ` + catalogItemColumns + `
		FROM catalog_items
		WHERE id = $1
	`

	FindCatalogItemsByIDs = `
		SELECT ` + catalogItemColumns + `
		FROM catalog_items
		WHERE id = ANY($1)
	`

	SearchCatalogItems = `
		SELECT ` + catalogItemColumns + `
		FROM catalog_items
		WHERE ($1 = '' OR kind = $1)
			AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR category ILIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT 100
	`
)
