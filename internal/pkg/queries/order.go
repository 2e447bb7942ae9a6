package queries

const orderColumns = `
			id, guest_id, status, payment_status, total_price, prescription_id, tracking_code,
			checkout_session_id, payment_reference, contact_email, contact_phone, delivery_address,
			cancellation_reason, stock_reserved, paid_at, created_at, updated_at`

const (
	// Insert Queries
	InsertCartOrder = `
		INSERT INTO orders (id, guest_id, status, payment_status, total_price, created_at, updated_at)
		VALUES ($1, $2, 'cart', 'pending', 0, $3, $3)
		ON CONFLICT (guest_id) WHERE status = 'cart' DO NOTHING
	`

	InsertOrder = `
		INSERT INTO orders (` + orderColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	// Select Queries
	FindCartOrderByGuestID = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE guest_id = $1 AND status = 'cart'
	`

	FindCartOrderByGuestIDForUpdate = FindCartOrderByGuestID + ` FOR UPDATE`

	FindReopenableOrderByGuestID = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE guest_id = $1 AND status = 'pending' AND payment_status IN ('failed', 'cancelled')
		ORDER BY updated_at DESC
		LIMIT 1
		FOR UPDATE
	`

	FindOrderByID = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	FindOrdersByIDsForUpdate = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = ANY($1)
		ORDER BY created_at, id
		FOR UPDATE
	`

	FindOrderByIDAndGuestID = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND guest_id = $2
		FOR UPDATE
	`

	FindOrdersBySessionID = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE checkout_session_id = $1 AND ($2 = '' OR guest_id = $2) AND status = ANY($3)
		ORDER BY created_at, id
	`

	FindOrdersByGuestIDAndPaymentReferences = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE guest_id = $1 AND payment_reference = ANY($2)
		ORDER BY created_at, id
	`

	FindOrdersByTrackingCode = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tracking_code = $1 AND status = ANY($2)
		ORDER BY created_at, id
	`

	FindLatestOrderByContact = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status <> 'cart' AND (($1 <> '' AND contact_email = $1) OR contact_phone = ANY($2))
		ORDER BY created_at DESC
		LIMIT 1
	`

	FindExpiredPendingOrders = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'pending' AND payment_status IN ('pending', 'failed') AND stock_reserved AND updated_at < $1
		ORDER BY updated_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	FindOrdersByProviderID = `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.provider_id = $1)
			AND o.status <> 'cart' AND ($2 = '' OR o.status = $2)
		ORDER BY o.created_at DESC
		LIMIT $3 OFFSET $4
	`

	CountOrdersByProviderID = `
		SELECT COUNT(*)
		FROM orders o
		WHERE EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.provider_id = $1)
			AND o.status <> 'cart' AND ($2 = '' OR o.status = $2)
	`

	FindPendingOrdersByPrescriptionID = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE prescription_id = $1 AND status = 'pending_prescription'
		ORDER BY created_at
		FOR UPDATE
	`

	// Update Queries
	UpdateOrder = `
		UPDATE orders SET
			status = $2,
			payment_status = $3,
			total_price = $4,
			prescription_id = $5,
			tracking_code = $6,
			checkout_session_id = $7,
			payment_reference = $8,
			contact_email = $9,
			contact_phone = $10,
			delivery_address = $11,
			cancellation_reason = $12,
			stock_reserved = $13,
			paid_at = $14,
			updated_at = $15
		WHERE id = $1
	`

	RecalculateOrderTotal = `
		UPDATE orders SET
			total_price = COALESCE((SELECT SUM(quantity * price) FROM order_items WHERE order_id = $1), 0),
			updated_at = NOW()
		WHERE id = $1
		RETURNING total_price
	`

	// Delete Queries
	DeleteOrder = `DELETE FROM orders WHERE id = $1`
)
