// Package file reads vehicle descriptions from YAML or JSON documents and
// stores model snapshots as JSON files.
package file
