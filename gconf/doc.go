/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration object under the "_c:<name>"
key. Configuration is loaded from the genesis file and validated before it
is written.
*/
package gconf
