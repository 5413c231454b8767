package domain

import "errors"

// Validation errors are terminal for a single attempt only: they are
// reported to the originating caller and leave all state untouched.
var (
	ErrNotFound          = errors.New("team or player not found")
	ErrNoActiveRound     = errors.New("no active round for this player")
	ErrInsufficientFunds = errors.New("insufficient budget")
	ErrInvalidTransition = errors.New("invalid round transition")
	ErrBudgetExceeded    = errors.New("sale would exceed team budget")
	ErrBidTooLow         = errors.New("bid must be higher than current price")
)

// UserMessage maps an error to the short message shown to clients.
// Anything outside the taxonomy stays opaque.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Invalid Team or Player"
	case errors.Is(err, ErrNoActiveRound):
		return "No Active Round"
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient Budget"
	case errors.Is(err, ErrInvalidTransition):
		return "Round Not Available"
	case errors.Is(err, ErrBudgetExceeded):
		return "Budget Exceeded"
	case errors.Is(err, ErrBidTooLow):
		return "Bid Too Low"
	default:
		return "Request Failed"
	}
}
