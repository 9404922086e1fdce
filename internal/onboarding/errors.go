package onboarding

// FieldErrors maps a form field name to a human-readable validation message.
// A set is replaced wholesale on each validation attempt; server-side
// rejections of the final submission are installed under "profile.<field>"
// keys so they render on the same surface as client-side failures.
type FieldErrors map[string]string

func (errors FieldErrors) Empty() bool {
	return len(errors) == 0
}

// Merge copies entries from other, prefixing each key.
func (errors FieldErrors) Merge(prefix string, other map[string]string) {
	for field, message := range other {
		errors[prefix+field] = message
	}
}
