package pricing

import (
	"strings"

	"github.com/google/uuid"
)

// GlobalBasisID is the wire sentinel for the global wholesale basis.
const GlobalBasisID = "global"

// Basis is the reference price source: either the global wholesale price
// or the frozen prices of a saved profile. The zero value is Global.
type Basis struct {
	profileID string
}

// Global returns the global wholesale basis.
func Global() Basis { return Basis{} }

// ProfileRef returns a basis pointing at a saved profile.
func ProfileRef(id uuid.UUID) Basis { return Basis{profileID: id.String()} }

// ParseBasis reads a wire value. nil, "" and "global" are Global. Any other
// value is a profile reference; UUIDs are normalised, non-UUID strings are
// kept verbatim and simply never resolve.
func ParseBasis(raw *string) Basis {
	if raw == nil {
		return Global()
	}
	s := strings.TrimSpace(*raw)
	if s == "" || strings.EqualFold(s, GlobalBasisID) {
		return Global()
	}
	if id, err := uuid.Parse(s); err == nil {
		return ProfileRef(id)
	}
	return Basis{profileID: s}
}

func (b Basis) IsGlobal() bool { return b.profileID == "" }

// ProfileID returns the referenced profile id, if the basis is a well-formed
// profile reference.
func (b Basis) ProfileID() (uuid.UUID, bool) {
	if b.IsGlobal() {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(b.profileID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (b Basis) String() string {
	if b.IsGlobal() {
		return GlobalBasisID
	}
	return b.profileID
}
