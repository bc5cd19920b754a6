/*
Package x contains the extensions of flow.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct the application.
The stream ledger lives in x/stream, authentication in x/sigs, the token
balances it moves in x/cash and generic middleware in x/utils.
*/
package x
