package queries

const orderItemColumns = `
			id, order_id, provider_id, item_id, quantity, price, time_slot_start, time_slot_end,
			fulfillment_type, created_at, updated_at`

const (
	// Insert Queries
	UpsertOrderItem = `
		INSERT INTO order_items (` + orderItemColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
		)
		ON CONFLICT (order_id, provider_id, item_id) DO UPDATE SET
			quantity = order_items.quantity + EXCLUDED.quantity,
			price = EXCLUDED.price,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + orderItemColumns

	InsertOrderItem = `
		INSERT INTO order_items (` + orderItemColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
		)
	`

	// Select Queries
	FindOrderItemsByOrderID = `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	FindOrderItemByOrderAndOffering = `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1 AND provider_id = $2 AND item_id = $3
	`

	FindOrderItemDetailsByOrderIDs = `
		SELECT
			oi.id, oi.order_id, oi.provider_id, oi.item_id, oi.quantity, oi.price, oi.time_slot_start,
			oi.time_slot_end, oi.fulfillment_type, oi.created_at, oi.updated_at,
			c.name, c.kind, c.prescription_required, p.name
		FROM order_items oi
		JOIN catalog_items c ON c.id = oi.item_id
		JOIN providers p ON p.id = oi.provider_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at, oi.id
	`

	FindCartOrderItem = `
		SELECT
			oi.id, oi.order_id, oi.provider_id, oi.item_id, oi.quantity, oi.price, oi.time_slot_start,
			oi.time_slot_end, oi.fulfillment_type, oi.created_at, oi.updated_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.guest_id = $1 AND o.status = 'cart' AND oi.id = $2
		FOR UPDATE OF oi
	`

	FindBookedSlotsByProviderID = `
		SELECT oi.time_slot_start, oi.time_slot_end
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.provider_id = $1
			AND o.status NOT IN ('cart', 'cancelled')
			AND oi.time_slot_start IS NOT NULL
			AND oi.time_slot_start < $3
			AND oi.time_slot_end > $2
	`

	ExistsOrderItemForProvider = `
		SELECT EXISTS (SELECT 1 FROM order_items WHERE order_id = $1 AND provider_id = $2)
	`

	// Update Queries
	UpdateOrderItem = `
		UPDATE order_items SET
			quantity = $2,
			price = $3,
			time_slot_start = $4,
			time_slot_end = $5,
			fulfillment_type = $6,
			updated_at = $7
		WHERE id = $1
	`

	MoveOrderItems = `
		UPDATE order_items SET order_id = $2, updated_at = NOW()
		WHERE id = ANY($1)
	`

	// Delete Queries
	DeleteCartOrderItem = `
		DELETE FROM order_items oi
		USING orders o
		WHERE oi.order_id = o.id AND o.guest_id = $1 AND o.status = 'cart' AND oi.id = $2
	`
)
