package types

// PackageDependency is the template reference extracted from an answers
// file.
type PackageDependency struct {
	// AnswersFile is the file the dependency was read from.
	AnswersFile string
	// DepName is the template source as written in the answers file.
	DepName string
	// PackageName is the source used for version lookups.
	PackageName string
	// CurrentValue is the template version the instance was rendered from.
	CurrentValue string
	Datasource   string
	// SkipReason is set when the dependency cannot be updated automatically.
	SkipReason string
}

// Updatable reports whether no skip reason was recorded.
func (d PackageDependency) Updatable() bool {
	return d.SkipReason == ""
}
