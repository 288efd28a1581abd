package sim

// Package is a unit of work flowing through the network. Its only attribute
// is its identifier, drawn from an IDPool.
//
// Packages are values; the pool does not track copies. Ownership moves with
// Move: the moved-from package holds no identity and Destroy on it releases nothing.
type Package struct {
	id ElementID
}

// NewPackage allocates a package with a fresh identifier from pool.
func NewPackage(pool *IDPool) Package {
	return Package{id: pool.Acquire()}
}

// NewPackageWithID allocates a package with an explicit identifier.
// Returns ErrDuplicateIdentifier if the identifier is already live.
func NewPackageWithID(pool *IDPool, id ElementID) (Package, error) {
	got, err := pool.AcquireID(id)
	if err != nil {
		return Package{}, err
	}
	return Package{id: got}, nil
}

// ID returns the package identifier, or 0 for a moved-from package.
func (p Package) ID() ElementID {
	return p.id
}

// HasIdentity reports whether the package still owns an identifier.
func (p Package) HasIdentity() bool {
	return p.id != 0
}

// Move transfers the identity out of p, leaving p empty.
func (p *Package) Move() Package {
	moved := *p
	p.id = 0
	return moved
}

// Destroy returns the identity to pool. A no-op on moved-from packages.
func (p *Package) Destroy(pool *IDPool) {
	pool.Release(p.id)
	p.id = 0
}
