package cmd

import "github.com/ardnew/empl/lang"

// Predefined errors (sentinel values).
var (
	ErrReadSource  = lang.NewError("read source")
	ErrJSONMarshal = lang.NewError("marshal JSON")
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrWriteFlags  = lang.NewError("write flags file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)
