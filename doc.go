/*
Package flow defines the interfaces used throughout the value streaming
application: storage, transactions, handlers and decorators, conditions and
addresses, block time.

Extensions live under x/. Each of them binds its business logic to these
interfaces so the application host (package app) can route signed messages
to them and run every message inside an isolated, all-or-nothing store
transaction.
*/
package flow
