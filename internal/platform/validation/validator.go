package validation

// Validator is implemented by all validation strategies. A nil map means
// the value passed validation.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
