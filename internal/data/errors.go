package data

import "errors"

var (
	// ErrSchema reports a data file whose shape does not match its table.
	ErrSchema = errors.New("data schema mismatch")
	// ErrUnknownCard reports a reference to an undeclared card name.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownEnemy reports a reference to an undeclared enemy name.
	ErrUnknownEnemy = errors.New("unknown enemy")
)
