package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tutorwave/lms-support/internal/domain"
)

// firstTicketNumber is where the sequence starts when no ticket exists yet or
// the latest stored number cannot be parsed.
const firstTicketNumber = 100000

// NextTicketNumber computes the number for a new ticket from the most
// recently created one. The stored format is "#NNNNNN", six digits,
// zero-padded.
func NextTicketNumber(prior *domain.Ticket) string {
	next := firstTicketNumber
	if prior != nil {
		raw := strings.TrimPrefix(prior.TicketNumber, "#")
		if n, err := strconv.Atoi(raw); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("#%06d", next)
}

// FallbackTicketNumber derives a ticket number from the current time when the
// latest-ticket lookup itself fails. The last six digits of the Unix
// millisecond epoch keep the sequence moving rather than blocking creation.
func FallbackTicketNumber(now time.Time) string {
	millis := now.UnixMilli()
	return fmt.Sprintf("#%06d", millis%1000000)
}
