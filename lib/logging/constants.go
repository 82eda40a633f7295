package logging

// Common slog field keys used throughout the application
const (
	FieldError     = "error"
	FieldForwardTo = "forward_to"
	FieldKind      = "kind"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldSupplier  = "supplier"
)
