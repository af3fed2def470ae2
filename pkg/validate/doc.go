// Package validate holds the field validators used by task builders.
//
// Predicates (IsIPv4Prefix, ClassifyInterface, ...) are pure functions over a
// string. A Validator pairs a predicate over an arbitrary property value with
// the human-readable expectation reported when a value is rejected. Validators
// hold no state beyond what their constructor binds, so a single Validator
// value is shared by every builder that declares the field.
package validate
