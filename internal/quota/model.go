package quota

import "errors"

// ErrExhausted is returned when a user has no NLU calls remaining for
// the current month.
var ErrExhausted = errors.New("quota: monthly allowance exhausted")

// DefaultAllowance is the number of understood messages granted per
// user per month.
const DefaultAllowance = 300
