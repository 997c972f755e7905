// # go-apidoc
//
// `go-apidoc` generates reStructuredText API reference pages for a Go
// library. It discovers the library's public surface from the package tree
// itself, so the reference never drifts from what the library exports, and
// emits Sphinx directives (`autoclass`, `autofunction`) plus cross-reference
// anchors for an external documentation toolchain to render.
//
// Key capabilities:
//
//   - discover a package tree with `golang.org/x/tools/go/packages`: every
//     sub-package becomes a namespace, exported types become classes and
//     exported functions become functions.
//   - emit one page per module, either for the module's own exports or with
//     one section per `--submodules` entry.
//   - sort members case-insensitively and give every member a
//     path-qualified anchor (`api_fluid_layers_FC`) and a localized-reference
//     stub (`cn_api_fluid_layers_FC`).
//   - dump the discovered registry as a YAML manifest and emit from a saved
//     manifest instead of the source tree.
//   - ship a Cobra-powered CLI with `--help`, `--version`, shell completion,
//     and a `gen-docs` helper for publishing the CLI reference itself.
//
// ## Usage
//
//	go-apidoc [flags] MODULE [--submodules NAME...]
//
// Examples:
//
//   - Document `fluid/layers` from the library rooted at `./fluid`:
//
//     go-apidoc --root ./fluid --library paddle layers
//
//   - Document the root package, one section per submodule:
//
//     go-apidoc --root ./fluid "" --submodules layers optimizer
//
//   - Save the registry and document from it later:
//
//     go-apidoc manifest --root ./fluid -o fluid.yaml
//     go-apidoc --manifest fluid.yaml layers
//
// MODULE must come before `--submodules`, which consumes every following
// argument up to the next flag. Passing `--submodules` with no names
// documents nothing but the title; omitting it documents MODULE's own
// exports. Names are taken verbatim, so a comma is part of the name.
//
// Items documented under `--submodules` are qualified with the submodule
// path: `FC` in the `layers` section of the root page gets the anchor
// `api_fluid_layers_FC` and the target `fluid.layers.FC`, not the flat
// module-level `api_fluid_FC`. Localized pages must link to the qualified
// label.
//
// ## Supported Flags
//
//   - `--root`: package pattern of the root namespace (default `.`).
//   - `--manifest FILE`: read the registry from a YAML manifest.
//   - `--library NAME`: prefix every directive target with `NAME.`.
//   - `--tags LIST`: build tags used when resolving members.
//   - `-o FILE`: write the page to `FILE` (stdout when omitted).
//   - `--config FILE`: read defaults from the `apidoc:` section of a YAML
//     file. Flags given on the command line win.
//   - `-v`: log discovery and skipped members to stderr.
//
// Single-dash spellings such as `-submodules` are accepted as well.
//
// ## Discovery Rules
//
// The export list of a package is every exported top-level identifier
// declared in its non-test files, including files excluded by build
// constraints. Members are resolved against the current build, so a name
// declared only in an excluded file is listed but skipped. Packages below an
// `internal` directory are not part of the public surface and are never
// discovered. A package whose files are all excluded by build constraints
// is still discovered; its names are listed and skipped until the matching
// `--tags` are given. Command packages and directories without Go files have no
// export list; asking for one of them with `--submodules` is an error.
//
// ## Exit Status
//
// Any lookup failure (unknown module or submodule, missing export list)
// aborts the run. Everything emitted before the failure is still written,
// `go-apidoc: <error>` is printed to stderr and the exit status is 1.
package main
