package board

import "errors"

var (
	// ErrNotOwner is returned when a user edits content someone else created
	ErrNotOwner = errors.New("only the owner can change this")

	// ErrNotRecording is returned when stopping without an active recording
	ErrNotRecording = errors.New("no recording in progress")

	// ErrInvalidCategory is returned for a category outside the known set
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyPatch is returned for an update that changes nothing
	ErrEmptyPatch = errors.New("no fields to update")

	// ErrClosed is returned when analysis is requested after shutdown began
	ErrClosed = errors.New("board is shutting down")
)
