/*
Package ports defines the driven ports (interfaces) for the branchmap analyzer.

These interfaces decouple the analysis core from the front ends that turn
workflow programs into flat element lists.

# Key Interfaces

  - WorkflowLoader: Lists and loads workflows (e.g., from Go source, YAML element documents or Memory).
*/
package ports
