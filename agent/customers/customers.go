// Package customers holds the fixed demo credential table. In a real
// deployment this would sit behind a customer database.
package customers

// Store maps customer emails to their 4-digit PINs. It is immutable after
// construction and safe for concurrent reads.
type Store struct {
	pins map[string]string
}

// NewStore copies the given table so later mutation of the argument cannot
// leak into the store.
func NewStore(pins map[string]string) *Store {
	copied := make(map[string]string, len(pins))
	for email, pin := range pins {
		copied[email] = pin
	}
	return &Store{pins: copied}
}

// Default returns the built-in demo customer table.
func Default() *Store {
	return NewStore(map[string]string{
		"donaldgarcia@example.net":   "7912",
		"michellejames@example.com":  "1520",
		"laurahenderson@example.org": "1488",
		"spenceamanda@example.org":   "2535",
		"glee@example.net":           "4582",
		"williamsthomas@example.net": "4811",
		"justin78@example.net":       "9279",
		"jason31@example.com":        "1434",
		"samuel81@example.com":       "4257",
		"williamleon@example.net":    "9928",
	})
}

// PIN returns the PIN for a known customer email.
func (s *Store) PIN(email string) (string, bool) {
	pin, ok := s.pins[email]
	return pin, ok
}

// Known reports whether the email belongs to a registered customer.
func (s *Store) Known(email string) bool {
	_, ok := s.pins[email]
	return ok
}

// Verify checks an email/PIN pair. Unknown emails never verify.
func (s *Store) Verify(email, pin string) bool {
	want, ok := s.pins[email]
	return ok && pin == want
}
