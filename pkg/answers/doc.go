// Package answers finds Copier answers files and reads the template
// reference they record.
//
// An answers file is the YAML document Copier writes next to a rendered
// template instance. Two keys matter here: _src_path, the template source,
// and _commit, the template version the instance was last rendered from.
// Extract turns them into a types.PackageDependency; Discover walks a
// repository for files whose path matches the answers-file pattern.
package answers
