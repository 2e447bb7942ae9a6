package queries

const transactionReferenceColumns = `
			id, reference, internal_references, checkout_session_id, guest_id, amount_kobo, created_at`

const (
	InsertTransactionReference = `
		INSERT INTO transaction_references (` + transactionReferenceColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	FindTransactionReferenceByReference = `
		SELECT ` + transactionReferenceColumns + `
		FROM transaction_references
		WHERE reference = $1
	`

	FindTransactionReferenceByInternalReference = `
		SELECT ` + transactionReferenceColumns + `
		FROM transaction_references
		WHERE $1 = ANY(internal_references)
		ORDER BY created_at DESC
		LIMIT 1
	`
)
