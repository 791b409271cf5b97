package entities

// IdentitySession is the read-only view of an externally issued identity
// session. The provider owns its lifecycle; this module only consumes it.
type IdentitySession struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	Active    bool
}
