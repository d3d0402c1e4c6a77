// Package validate implements the record classification pass of the
// validation pipeline.
//
// Raw dataset pages arrive as loosely-typed JSON. The Classifier decides
// per record whether it is well-formed; the Cleaner walks all stored raw
// pages, writes per-page cleaned artifacts plus the combined validated
// dataset, and reports statistics. Records that pass here satisfy the
// preconditions the ranking core relies on and are never re-checked
// downstream.
package validate
