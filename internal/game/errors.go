package game

import "errors"

var (
	// ErrNotYourTurn is returned when a seat acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrHandOver is returned for actions after the hand has ended or before one started.
	ErrHandOver = errors.New("hand is over")
	// ErrIllegalAction is returned for actions the betting rules forbid.
	ErrIllegalAction = errors.New("illegal action")
	// ErrHandInProgress is returned when a new hand is requested mid-hand.
	ErrHandInProgress = errors.New("hand in progress")
	// ErrStreetOpen is returned when advancing a street that still has action pending.
	ErrStreetOpen = errors.New("street still open")
)
