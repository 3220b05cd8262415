// Package component defines the lifecycle interface shared by the long
// running parts of an rxkit service and a Registry that starts them in
// order and stops them in reverse.
package component
