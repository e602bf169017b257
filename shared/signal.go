package shared

// SetupKind represents the outcome of a setup decision.
type SetupKind int

const (
	NoSetup SetupKind = iota
	NearSetup
	TradeSetup
)

// String stringifies the provided setup kind.
func (k SetupKind) String() string {
	switch k {
	case NoSetup:
		return "NONE"
	case NearSetup:
		return "NEAR_SETUP"
	case TradeSetup:
		return "TRADE"
	default:
		return "unknown"
	}
}

// Direction represents the trade direction of a setup.
type Direction int

const (
	NoDirection Direction = iota
	Call
	Put
)

// String stringifies the provided direction.
func (d Direction) String() string {
	switch d {
	case NoDirection:
		return "None"
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	default:
		return "unknown"
	}
}

// SetupDecision represents the terminal output of a single symbol evaluation.
// Trade and near setup decisions always carry a direction, no setup decisions never do.
type SetupDecision struct {
	Kind      SetupKind
	Direction Direction
}

// NewTradeDecision initializes a trade decision in the provided direction.
func NewTradeDecision(direction Direction) SetupDecision {
	return SetupDecision{Kind: TradeSetup, Direction: direction}
}

// NewNearSetupDecision initializes a near setup decision in the provided direction.
func NewNearSetupDecision(direction Direction) SetupDecision {
	return SetupDecision{Kind: NearSetup, Direction: direction}
}

// NoDecision returns a no setup decision.
func NoDecision() SetupDecision {
	return SetupDecision{Kind: NoSetup, Direction: NoDirection}
}

// IsActionable returns whether the decision warrants a notification.
func (d SetupDecision) IsActionable() bool {
	return d.Kind == TradeSetup || d.Kind == NearSetup
}

// String stringifies the provided decision.
func (d SetupDecision) String() string {
	if d.Kind == NoSetup {
		return d.Kind.String()
	}

	return d.Kind.String() + "/" + d.Direction.String()
}
