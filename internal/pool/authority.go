package pool

// Authority is either no one or exactly one identity. A pool without an
// authority can never be locked or unlocked again.
type Authority struct {
	id  Identity
	set bool
}

// NoAuthority returns the empty authority.
func NoAuthority() Authority {
	return Authority{}
}

// AuthorityOf returns an authority held by id.
func AuthorityOf(id Identity) Authority {
	return Authority{id: id, set: true}
}

// Get returns the identity and whether one is set.
func (a Authority) Get() (Identity, bool) {
	return a.id, a.set
}

// IsSet reports whether an identity holds the authority.
func (a Authority) IsSet() bool {
	return a.set
}

// Permits reports whether caller holds the authority.
func (a Authority) Permits(caller Identity) bool {
	return a.set && a.id == caller
}

// String implements fmt.Stringer.
func (a Authority) String() string {
	if !a.set {
		return "none"
	}
	return a.id.Hex()
}
