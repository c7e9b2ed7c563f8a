// Package apperrors defines the sentinel errors of the ticketing core.
// Services wrap them with fmt.Errorf("...: %w", err); handlers map them
// to HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrEventNotFound - the referenced event does not exist
	ErrEventNotFound = errors.New("event not found")
	// ErrTicketNotFound - the referenced ticket does not exist
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrForbidden - the caller does not own the resource
	ErrForbidden = errors.New("operation is forbidden for user")

	// ErrEventNotOnSale - the event is not published or already started
	ErrEventNotOnSale = errors.New("event is not available for ticket purchase")
	// ErrTicketNotPending - the ticket is past the pending stage
	ErrTicketNotPending = errors.New("ticket is not in pending state")
	// ErrTicketNotPaid - the ticket is not settled, so no redemption
	// artifact may exist for it
	ErrTicketNotPaid = errors.New("ticket is not in paid state")
	// ErrTicketScanned - scanned tickets are terminal and cannot be cancelled
	ErrTicketScanned = errors.New("cannot cancel a scanned ticket")

	// ErrDuplicateTicket - the user already holds an active ticket for the event
	ErrDuplicateTicket = errors.New("user already has a ticket for this event")
	// ErrSoldOut - the event has no remaining capacity
	ErrSoldOut = errors.New("event is sold out")

	// ErrAmountMismatch - submitted amount does not match the event price
	ErrAmountMismatch = errors.New("payment amount does not match ticket price")

	// ErrGateway - the payment gateway call failed; the caller may retry
	ErrGateway = errors.New("payment gateway error")

	// ErrInvalidSignature - webhook signature verification failed; never retried
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidOrExpired - redemption token was never issued, already
	// consumed, or past its grace window
	ErrInvalidOrExpired = errors.New("invalid, expired, or already scanned ticket")
)
