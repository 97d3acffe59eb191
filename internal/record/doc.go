// Package record implements the generic record store over the shared
// keyspace: kind descriptors, validation, typed CRUD, and the
// tagged-variant classification that makes a schema-less substrate
// enumerable by kind.
//
// Kind shapes are declared in the embedded kinds.cue file and loaded
// once at package init. Classification tries kinds in the declared
// priority order and assigns a parsed object to the first kind whose
// key field it carries. Values that fail strict parsing are carried as
// raw strings and excluded from every typed listing; a scan never
// aborts on one bad value.
package record
