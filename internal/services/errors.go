// Package services defines the business logic for scripture reading, study
// data, chats and messages. This file centralizes service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Chat-related errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or is not
	// accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyPrompt is returned when a request to create a message contains
	// an empty prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when a prompt exceeds the configured rune limit.
	ErrTooLong = errors.New("prompt too long")
)

// Scripture errors.
var (
	// ErrNoCorpus is returned before any corpus has been loaded.
	ErrNoCorpus = errors.New("no corpus loaded")

	// ErrVolumeNotFound, ErrChapterNotFound and ErrVerseNotFound report
	// coordinates that do not exist in the loaded corpus.
	ErrVolumeNotFound  = errors.New("volume not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrVerseNotFound   = errors.New("verse not found")

	// ErrCrossRefNotFound is returned when a verse has no cross-reference at
	// the requested position or its target is not in the corpus.
	ErrCrossRefNotFound = errors.New("cross-reference target not found")

	// ErrInvalidReference is returned for citations that cannot be parsed.
	ErrInvalidReference = errors.New("invalid reference")
)

// Study errors.
var (
	// ErrInvalidStudyItem is returned when a note, highlight, bookmark or
	// position fails validation.
	ErrInvalidStudyItem = errors.New("invalid study item")

	// ErrStudyItemNotFound is returned when removing an item that does not
	// exist in the user's collection.
	ErrStudyItemNotFound = errors.New("study item not found")
)
