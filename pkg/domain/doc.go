/*
Package domain contains the core data model of the branchmap analysis engine.

It defines the entities that flow through a single analysis run, from the
flat list of extracted source elements down to the rendered graph. The
package is kept pure and free of I/O so every stage can be tested in
isolation.

# Key Entities

  - SourceElement: an activity call, decision or signal wait with its source position and nesting scope.
  - Sequence / Step / Branch: the control-flow tree built from the elements.
  - VisiblePath / PathCollection: the deduplicated result of replaying the tree.
  - Graph / Chain: the node/edge form used by the full and compact diagrams.
*/
package domain
