// Package lifecycle is the single authoritative order state machine. Every
// handler that displays or mutates an order status goes through this table.
package lifecycle

import (
	"fmt"

	"renta/model"
)

// Action is a requested lifecycle operation on an order.
type Action string

const (
	ActionSign          Action = "sign"
	ActionConfirmPickup Action = "confirm_pickup"
	ActionConfirmReturn Action = "confirm_return"
	ActionCancel        Action = "cancel"
)

// CommittingStatuses is the set of statuses whose order items count against
// availability. An unsigned reservation (pending_signature) holds no stock.
var CommittingStatuses = []model.OrderStatus{
	model.StatusReserved,
	model.StatusSigned,
	model.StatusPickedUp,
}

// EditableStatuses allows direct field/item edits. Once equipment is out the
// door the order is only mutated through transitions.
var EditableStatuses = []model.OrderStatus{
	model.StatusPendingSignature,
	model.StatusSigned,
	model.StatusReserved,
}

// Result describes the outcome of a legal transition: the next status plus
// which timestamps the caller must stamp.
type Result struct {
	Next            model.OrderStatus
	StampSignedAt   bool
	StampPickedUpAt bool
	StampReturnedAt bool
	StampCanceledAt bool
	// BackfillPickedUpAt is set on return confirmation when the order never
	// recorded an explicit pickup timestamp.
	BackfillPickedUpAt bool
}

// TransitionError is a rejected action. It never partially applies; callers
// report it synchronously and write nothing.
type TransitionError struct {
	From   model.OrderStatus
	Action Action
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an order in status %q: %s", e.Action, e.From, e.Reason)
}

func IsTerminal(s model.OrderStatus) bool {
	return s == model.StatusReturned || s == model.StatusCanceled
}

func IsCommitting(s model.OrderStatus) bool {
	for _, c := range CommittingStatuses {
		if s == c {
			return true
		}
	}
	return false
}

func IsEditable(s model.OrderStatus) bool {
	for _, c := range EditableStatuses {
		if s == c {
			return true
		}
	}
	return false
}

// ValidInitial reports whether an order may be created directly in s.
// pending_signature is the default; signed records a paper-signed contract.
func ValidInitial(s model.OrderStatus) bool {
	return s == model.StatusPendingSignature || s == model.StatusSigned
}

// Apply resolves one action against the transition table. hasPickupStamp
// tells the return path whether picked_up_at needs backfilling.
func Apply(current model.OrderStatus, action Action, fulfillment model.FulfillmentType, hasPickupStamp bool) (Result, error) {
	if IsTerminal(current) {
		return Result{}, &TransitionError{From: current, Action: action, Reason: "order is terminal"}
	}

	switch action {
	case ActionSign:
		if current != model.StatusPendingSignature {
			return Result{}, &TransitionError{From: current, Action: action, Reason: "signature already captured"}
		}
		res := Result{StampSignedAt: true}
		if fulfillment == model.FulfillmentImmediate {
			res.Next = model.StatusPickedUp
			res.StampPickedUpAt = true
		} else {
			res.Next = model.StatusReserved
		}
		return res, nil

	case ActionConfirmPickup:
		if current != model.StatusSigned && current != model.StatusReserved {
			return Result{}, &TransitionError{From: current, Action: action, Reason: "only signed or reserved orders can be picked up"}
		}
		return Result{Next: model.StatusPickedUp, StampPickedUpAt: true}, nil

	case ActionConfirmReturn:
		if current != model.StatusPickedUp {
			return Result{}, &TransitionError{From: current, Action: action, Reason: "only picked up orders can be returned"}
		}
		return Result{
			Next:               model.StatusReturned,
			StampReturnedAt:    true,
			BackfillPickedUpAt: !hasPickupStamp,
		}, nil

	case ActionCancel:
		return Result{Next: model.StatusCanceled, StampCanceledAt: true}, nil
	}

	return Result{}, &TransitionError{From: current, Action: action, Reason: "unknown action"}
}
