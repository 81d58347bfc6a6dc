package domain

// NextAction tells the caller what the UI should do after a turn.
type NextAction string

const (
	NextActionContinueChat  NextAction = "continue_chat"
	NextActionSuggestSubmit NextAction = "suggest_submit"
)

// MediationState is derived from each request; it is never stored.
type MediationState string

const (
	StateRouting   MediationState = "ROUTING"
	StateAssignee  MediationState = "ASSIGNEE"
	StateInterview MediationState = "INTERVIEW"
	StateReady     MediationState = "READY"
)

// ConversationContext is the caller-owned state of one conversation,
// round-tripped in full on every turn.
type ConversationContext struct {
	ConversationID       string
	SenderDept           string
	TargetDept           DepartmentKey
	UserInput            string
	History              []ChatTurn
	Ticket               Ticket
	RoutingQuestionAsked bool
}

// MediationOutcome is built once per turn and not mutated afterwards.
type MediationOutcome struct {
	ConversationID       string
	AIMessage            string
	IdentifiedTargetDept DepartmentKey
	UpdatedTicket        Ticket
	IsCompleted          bool
	NextAction           NextAction
	MissingInfo          []string
	RoutingQuestionAsked bool
	State                MediationState
}

// DeriveState selects the stage for a turn from the department and the
// receivers alone. READY is reported when the ticket already validates.
func DeriveState(targetDept DepartmentKey, ticket Ticket, policy TicketPolicy) MediationState {
	switch {
	case targetDept == "":
		return StateRouting
	case len(ticket.Receivers) == 0:
		return StateAssignee
	case policy.Validate(ticket).Complete:
		return StateReady
	default:
		return StateInterview
	}
}
