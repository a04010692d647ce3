// Package tree builds and annotates the directory tree that a treemap is
// drawn from.
//
// # Pipeline
//
// A tree goes through four passes before it can be laid out:
//
//  1. [Build] turns a flat list of [FileEntry] values into a [Node] tree
//     rooted at a project name.
//  2. [Collapse] (optional) fuses chains of file-less, single-child
//     directories such as "src/main/java" into one node.
//  3. [Compose] wraps several project roots under a synthetic container.
//     With a single project the root is returned unchanged.
//  4. [Rollup] computes local and aggregated language statistics, depth
//     markers and the layout value for the selected KPI.
//
// Trees are rebuilt from scratch whenever the file set changes; only
// [Rollup] is rerun when just the KPI changes, and it fully replaces the
// previous annotations.
//
// # Interchange
//
// Annotated trees serialize to JSON with [WriteJSON] and [ReadJSON]. Every
// node carries a "children" array (empty for leaves) so the document can be
// fed to generic hierarchy consumers.
package tree
