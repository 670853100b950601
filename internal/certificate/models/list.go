package models

// ListFilter narrows a certificate listing. The zero value lists everything.
type ListFilter struct {
	Status Status
	Limit  int
}

// DefaultListLimit applies when ListFilter.Limit is zero.
const DefaultListLimit = 100

// Matches reports whether c passes the filter's predicates (not its limit).
func (f ListFilter) Matches(c *Certificate) bool {
	return f.Status == "" || c.Status == f.Status
}

// EffectiveLimit returns the limit with the default applied.
func (f ListFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}
