// Package semver holds the three-component version used in project
// manifests and the bump arithmetic applied to it.
package semver
