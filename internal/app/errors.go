package service

import "errors"

var (
	// ErrManagerNotFound is returned when a manager is not part of the league.
	ErrManagerNotFound = errors.New("manager not found")
	// ErrGameweekOutOfRange is returned for a gameweek outside 1..N.
	ErrGameweekOutOfRange = errors.New("gameweek out of range")
	// ErrNoSources is returned when the service has no manager sources.
	ErrNoSources = errors.New("no manager sources configured")
)
