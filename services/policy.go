package services

// Action is an operation on orders that the policy rules on.
type Action int

const (
	ActionList Action = iota
	ActionCreate
	ActionRetrieve
	ActionUpdate
	ActionDelete
)

// Order fields a caller may ask to write.
const (
	FieldStatus       = "status"
	FieldDeliveryCrew = "delivery_crew"
)

// Target is the order being acted on. A nil Target means the check runs
// before the order is loaded.
type Target struct {
	OwnerID        uint
	DeliveryCrewID *uint
}

func (t *Target) assignedTo(id uint) bool {
	return t.DeliveryCrewID != nil && *t.DeliveryCrewID == id
}

// Decide returns nil when caller may perform action with the given fields
// on target. It reads nothing from the store.
//
// Role is checked before visibility: a customer asking to delete a missing
// order gets ErrForbidden, not ErrNotFound. The manager flag wins over the
// delivery flag.
func Decide(c Caller, action Action, fields []string, target *Target) error {
	if !c.Authenticated {
		return ErrUnauthorized
	}
	if c.IsManager {
		return nil
	}

	switch action {
	case ActionList:
		return nil

	case ActionCreate:
		if c.IsDelivery {
			return ErrForbidden
		}
		return nil

	case ActionRetrieve:
		if target == nil {
			return nil
		}
		if target.OwnerID == c.ID || (c.IsDelivery && target.assignedTo(c.ID)) {
			return nil
		}
		return ErrNotFound

	case ActionUpdate:
		if !c.IsDelivery {
			return ErrForbidden
		}
		for _, f := range fields {
			if f != FieldStatus {
				return ErrForbidden
			}
		}
		if target != nil && !target.assignedTo(c.ID) {
			return ErrForbidden
		}
		return nil

	case ActionDelete:
		return ErrForbidden
	}
	return ErrForbidden
}
