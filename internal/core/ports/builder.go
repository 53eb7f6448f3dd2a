package ports

// RevisionSource reports the source revision of a build context.
type RevisionSource interface {
	// HeadRevision returns the commit checked out in dir, or "" when dir is
	// not under version control.
	HeadRevision(dir string) (string, error)
}
