package repl

import "github.com/ardnew/empl/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("index out of range")
	ErrEditDeclined = lang.NewError("decline edit")
	ErrUnknownStage = lang.NewError("unknown stage")
	ErrLoadHistory  = lang.NewError("load history")
	ErrWriteHistory = lang.NewError("write history")
)
