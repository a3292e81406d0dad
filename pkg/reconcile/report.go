package reconcile

import "github.com/arthur-debert/scaffup/pkg/types"

// ArtifactError is the single failure shape of an update: a one-element
// result naming the answers file and the diagnostic. Input rejection,
// command build failures and execution failures all use it.
func ArtifactError(answersFile, message string) types.ArtifactResult {
	return types.Failure(answersFile, message)
}
