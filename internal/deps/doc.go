// Package deps reconciles a manifest's declared dependencies with the
// packages a scanner detected in the project sources.
package deps
