// Package task implements the generic task builder shared by every module.
//
// A Builder owns a Store of optional property Values declared by a static
// Schema. Assignments are validated field by field; a rejected assignment
// leaves the Store untouched. Commit runs the module's final verification
// (mandatory fields, field dependencies, exclusive groups) and folds the set
// fields into a Task: the mapping a single playbook task carries under its
// module key.
//
// Modules whose Ansible schema is hierarchical declare a Layout. Fields are
// then tagged with a Level and collected through an Accumulator:
//
//	leaf   AddLeaf   snapshot leaf fields, e.g. one neighbor address family
//	group  AddGroup  close pending leaves under group fields, e.g. a neighbor
//	scope  AddScope  close pending groups under scope fields, e.g. a VRF
//
// Groups (or leaves, in layouts without a group level) still pending at
// commit form the default scope and fold into the top of the body. Leaves
// pending in a layout that has a group level are never folded silently:
// Commit fails with util.UnflushedError.
//
// Builder lifecycle is Empty -> Configuring -> Finalized. What happens after
// Commit is set per module by its ResetPolicy.
package task
