/*
Package utils contains decorators shared by all extensions.

A typical application wraps its router with Recovery, Logging, Metrics and
Savepoint, in that order, so that a panic or an error in any handler
discards every write of the transaction and is reported once.
*/
package utils
