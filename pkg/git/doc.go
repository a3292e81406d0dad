// Package git reads the repository working-tree status after copier ran.
package git
