// Package update wires configuration, the copier command builder, the
// shell runner, git status and the content loader into the operations the
// CLI exposes: updating one template instance, extracting template
// references and generating configuration.
package update
