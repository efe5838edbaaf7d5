package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a negotiation state.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusRejected        Status = "REJECTED"
	StatusCountered       Status = "COUNTERED"
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusConfirmed       Status = "CONFIRMED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusDelivered       Status = "DELIVERED"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
	StatusDisputed        Status = "DISPUTED"
)

// Action is a negotiation command.
type Action string

const (
	ActionAccept        Action = "accept"
	ActionReject        Action = "reject"
	ActionCounter       Action = "counter"
	ActionAcceptCounter Action = "accept_counter"
	ActionRejectCounter Action = "reject_counter"
	ActionConfirm       Action = "confirm_payment"
	ActionStart         Action = "start"
	ActionDeliver       Action = "deliver"
	ActionApprove       Action = "approve"
	ActionCancel        Action = "cancel"
	ActionDispute       Action = "dispute"
)

// Actor identifies which side of a negotiation issues an action.
type Actor string

const (
	ActorClient  Actor = "client"
	ActorCreator Actor = "creator"
	ActorSystem  Actor = "system"
)

// transition is one row of the negotiation state machine.
type transition struct {
	from  Status
	to    Status
	actor Actor
}

// transitions is the full table. Any move not listed here fails
// ErrInvalidTransition and leaves the negotiation untouched.
var transitions = map[Action][]transition{
	ActionAccept:        {{StatusPending, StatusAwaitingPayment, ActorCreator}},
	ActionReject:        {{StatusPending, StatusRejected, ActorCreator}},
	ActionCounter:       {{StatusPending, StatusCountered, ActorCreator}, {StatusCountered, StatusCountered, ActorCreator}},
	ActionAcceptCounter: {{StatusCountered, StatusAwaitingPayment, ActorClient}},
	ActionRejectCounter: {{StatusCountered, StatusRejected, ActorClient}},
	ActionConfirm:       {{StatusAwaitingPayment, StatusConfirmed, ActorSystem}},
	ActionStart:         {{StatusConfirmed, StatusInProgress, ActorSystem}},
	// The first deliver from CONFIRMED folds the implicit start into it.
	ActionDeliver: {{StatusConfirmed, StatusDelivered, ActorCreator}, {StatusInProgress, StatusDelivered, ActorCreator}},
	ActionApprove:       {{StatusDelivered, StatusCompleted, ActorClient}},
	ActionCancel: {
		{StatusPending, StatusCancelled, ""},
		{StatusCountered, StatusCancelled, ""},
		{StatusAwaitingPayment, StatusCancelled, ""},
		{StatusConfirmed, StatusCancelled, ""},
		{StatusInProgress, StatusCancelled, ""},
	},
	ActionDispute: {
		{StatusConfirmed, StatusDisputed, ""},
		{StatusInProgress, StatusDisputed, ""},
		{StatusDelivered, StatusDisputed, ""},
	},
}

var terminalStatuses = map[Status]bool{
	StatusRejected:  true,
	StatusCancelled: true,
	StatusCompleted: true,
	StatusDisputed:  true,
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// Next resolves the target state for action from the current status.
// An empty actor in the table means either participant may act.
func Next(from Status, action Action, actor Actor) (Status, error) {
	for _, t := range transitions[action] {
		if t.from != from {
			continue
		}
		if t.actor != "" && t.actor != actor && actor != ActorSystem {
			return "", ErrActorNotAllowed
		}
		return t.to, nil
	}
	return "", ErrInvalidTransition
}

// RequestKind tags the concrete negotiable type.
type RequestKind string

const (
	KindBooking            RequestKind = "booking"
	KindProjectApplication RequestKind = "project_application"
)

// Negotiation is the state-machine core shared by bookings and project
// applications. Amount always reflects the currently agreed price: the
// original ask, or the last accepted counter.
type Negotiation struct {
	ID                 string
	ClientID           string
	CreatorID          string
	Amount             decimal.Decimal
	Currency           string
	Status             Status
	EscrowHoldID       *string
	CounterAmount      *decimal.Decimal
	CounterProposedAt  *time.Time
	GatewayRef         *string
	PaymentInitiatedAt *time.Time
	DeliveredURL       *string
	DeliveredNotes     *string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate validates a freshly created negotiation.
func (n *Negotiation) Validate() error {
	if n.ClientID == n.CreatorID {
		return ErrSameParty
	}
	if n.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ActorFor maps a user to their side of the negotiation.
func (n *Negotiation) ActorFor(userID string) (Actor, error) {
	switch userID {
	case n.ClientID:
		return ActorClient, nil
	case n.CreatorID:
		return ActorCreator, nil
	default:
		return "", ErrActorNotAllowed
	}
}

// SetCounter records a counter-proposal, overwriting any outstanding one.
func (n *Negotiation) SetCounter(amount decimal.Decimal, at time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	n.CounterAmount = &amount
	n.CounterProposedAt = &at
	return nil
}

// ApplyCounter folds the current stored counter into the agreed amount.
func (n *Negotiation) ApplyCounter() error {
	if n.CounterAmount == nil {
		return ErrInvalidTransition
	}
	n.Amount = *n.CounterAmount
	n.CounterAmount = nil
	n.CounterProposedAt = nil
	return nil
}

// PaymentInFlight reports whether a gateway charge was initiated and has not
// yet confirmed or expired.
func (n *Negotiation) PaymentInFlight(now time.Time, window time.Duration) bool {
	if n.Status != StatusAwaitingPayment || n.PaymentInitiatedAt == nil {
		return false
	}
	return now.Sub(*n.PaymentInitiatedAt) < window
}

// CheckHoldInvariant verifies that EscrowHoldID is set exactly in the states
// where an active hold must exist. DISPUTED may carry a hold until the
// dispute is manually resolved.
func (n *Negotiation) CheckHoldInvariant() error {
	hasHold := n.EscrowHoldID != nil && *n.EscrowHoldID != ""
	switch n.Status {
	case StatusConfirmed, StatusInProgress, StatusDelivered:
		if !hasHold {
			return ErrHoldInvariantViolated
		}
	case StatusDisputed:
		// either
	default:
		if hasHold {
			return ErrHoldInvariantViolated
		}
	}
	return nil
}

// NegotiableRequest is the tagged union over the two concrete request types.
// Both carry the same state-machine core.
type NegotiableRequest interface {
	Core() *Negotiation
	Kind() RequestKind
}

// Booking is a direct engagement request from a client to a creator.
type Booking struct {
	Negotiation
	Brief string
}

func (b *Booking) Core() *Negotiation { return &b.Negotiation }
func (b *Booking) Kind() RequestKind  { return KindBooking }

// ProjectApplication is a creator's application to a posted project; once
// accepted it negotiates exactly like a booking.
type ProjectApplication struct {
	Negotiation
	ProjectID string
	Proposal  string
}

func (p *ProjectApplication) Core() *Negotiation { return &p.Negotiation }
func (p *ProjectApplication) Kind() RequestKind  { return KindProjectApplication }
