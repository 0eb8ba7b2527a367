package ports

// SourceHasher fingerprints module source trees for change detection.
//
//go:generate mockgen -source=source_hasher.go -destination=mocks/mock_source_hasher.go -package=mocks
type SourceHasher interface {
	// HashTree hashes every regular file below dir, skipping the excluded
	// subdirectories given relative to dir.
	HashTree(dir string, exclude []string) (string, error)
}
