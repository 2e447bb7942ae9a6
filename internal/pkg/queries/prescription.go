package queries

const prescriptionColumns = `
			p.id, p.guest_id, p.email, p.phone, p.file_reference, p.status, p.rejection_reason,
			p.reviewed_by, p.reviewed_at, p.created_at, p.updated_at,
			ARRAY(SELECT pi.item_id::text FROM prescription_items pi WHERE pi.prescription_id = p.id ORDER BY pi.item_id)`

const (
	InsertPrescription = `
		INSERT INTO prescriptions (id, guest_id, email, phone, file_reference, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	InsertPrescriptionItems = `
		INSERT INTO prescription_items (prescription_id, item_id)
		SELECT $1, UNNEST($2::uuid[])
		ON CONFLICT DO NOTHING
	`

	FindLatestVerifiedPrescriptionByGuestID = `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions p
		WHERE p.guest_id = $1 AND p.status = 'verified'
		ORDER BY p.created_at DESC
		LIMIT 1
	`

	FindPrescriptionByID = `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions p
		WHERE p.id = $1
	`

	FindLatestPrescriptionByContact = `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions p
		WHERE ($1 <> '' AND p.email = $1) OR p.phone = ANY($2)
		ORDER BY p.created_at DESC
		LIMIT 1
	`

	FindPrescriptionsByStatus = `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions p
		WHERE $1 = '' OR p.status = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	CountPrescriptionsByStatus = `
		SELECT COUNT(*) FROM prescriptions p WHERE $1 = '' OR p.status = $1
	`

	// Only pending records can be reviewed.
	UpdatePrescriptionReview = `
		UPDATE prescriptions SET
			status = $2,
			rejection_reason = $3,
			reviewed_by = $4,
			reviewed_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = 'pending'
	`
)
