/*
Package orm stores typed objects on top of a flow.KVStore.

A Bucket holds objects of one type under the "<name>:" prefix, keyed by
their primary key. Secondary indexes keep one row per object under
"_i.<bucket>_<index>:" and can be unique. Sequences live under
"_s.<bucket>:<name>" and hand out ids that sort in creation order.
*/
package orm
