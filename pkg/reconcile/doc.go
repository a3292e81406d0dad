// Package reconcile turns a copier run into a reviewable change set.
//
// The Reconciler validates the request, builds and runs the copier
// command, reads the working-tree status and decides between three
// results: no change (the answers file was not touched), an ordered change
// set, or an artifact error. Conflicts reported by copier are advisory:
// they are logged once and attached as notices, never treated as failures.
package reconcile
