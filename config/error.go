package config

import "github.com/ardnew/empl/lang"

// Predefined errors (sentinel values).
var (
	ErrUnknownCfgField    = lang.NewError("unknown configuration field")
	ErrInvalidColor       = lang.NewError("invalid color")
	ErrUnknownKeyAction   = lang.NewError("unknown key action")
	ErrUnknownKeyModifier = lang.NewError("unknown key modifier")
	ErrUnknownKeyCode     = lang.NewError("unknown key code")
	ErrEmptyConfig        = lang.NewError("incomplete configuration")
	ErrReadConfig         = lang.NewError("failed to read configuration")
	ErrWriteConfig        = lang.NewError("failed to write configuration")
	ErrInvalidSyntax      = lang.NewError("invalid syntax")
	ErrUnsetEnvVars       = lang.NewError("unset environment variables")
	ErrEval               = lang.NewError("evaluation failed")
	ErrQuery              = lang.NewError("query failed")
)
