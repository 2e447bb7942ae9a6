package utils

import "medmarket-service/internal/pkg/constvars"

var orderStatusTransitions = map[string][]string{
	constvars.OrderStatusCart:                {constvars.OrderStatusPending, constvars.OrderStatusPendingPrescription},
	constvars.OrderStatusPendingPrescription: {constvars.OrderStatusPending, constvars.OrderStatusPartiallyCompleted, constvars.OrderStatusCancelled},
	constvars.OrderStatusPartiallyCompleted:  {constvars.OrderStatusCancelled},
	constvars.OrderStatusPending:             {constvars.OrderStatusConfirmed, constvars.OrderStatusCancelled},
	constvars.OrderStatusConfirmed:           {constvars.OrderStatusProcessing, constvars.OrderStatusCancelled},
	constvars.OrderStatusProcessing: {
		constvars.OrderStatusShipped,
		constvars.OrderStatusSampleCollected,
		constvars.OrderStatusReadyForPickup,
		constvars.OrderStatusCancelled,
	},
	constvars.OrderStatusShipped:         {constvars.OrderStatusDelivered, constvars.OrderStatusCancelled},
	constvars.OrderStatusSampleCollected: {constvars.OrderStatusResultReady, constvars.OrderStatusCancelled},
	constvars.OrderStatusReadyForPickup:  {constvars.OrderStatusDelivered, constvars.OrderStatusCompleted},
	constvars.OrderStatusDelivered:       {constvars.OrderStatusCompleted},
	constvars.OrderStatusResultReady:     {constvars.OrderStatusCompleted},
	constvars.OrderStatusCompleted:       {},
	constvars.OrderStatusCancelled:       {},
}

// providerManagedStatuses are the statuses from which provider staff may move an order.
var providerManagedStatuses = map[string]bool{
	constvars.OrderStatusConfirmed:       true,
	constvars.OrderStatusProcessing:      true,
	constvars.OrderStatusShipped:         true,
	constvars.OrderStatusSampleCollected: true,
	constvars.OrderStatusReadyForPickup:  true,
	constvars.OrderStatusDelivered:       true,
	constvars.OrderStatusResultReady:     true,
}

func IsKnownOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}

func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsProviderManagedStatus(status string) bool {
	return providerManagedStatuses[status]
}

func ContainsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
