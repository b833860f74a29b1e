package booking

import (
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State selects a temporal or status subset of bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState is case-sensitive. An empty token means ALL.
func ParseState(token string) (State, error) {
	switch s := State(token); s {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", apperror.InvalidArgument("Unknown state: " + token)
	}
}

// Predicate returns the filter for s evaluated at now, or nil when nothing is filtered.
// Bounds are strict: a booking that starts exactly at now is neither CURRENT nor FUTURE.
func (s State) Predicate(now time.Time) squirrel.Sqlizer {
	switch s {
	case StateCurrent:
		return squirrel.And{
			squirrel.Lt{"b.start_date": now},
			squirrel.Gt{"b.end_date": now},
		}
	case StatePast:
		return squirrel.Lt{"b.end_date": now}
	case StateFuture:
		return squirrel.Gt{"b.start_date": now}
	case StateWaiting, StateRejected:
		return squirrel.Eq{"b.status": string(s)}
	default:
		return nil
	}
}
