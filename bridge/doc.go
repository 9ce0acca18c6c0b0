// Package bridge implements virtual-method dispatch across a language
// boundary: a registered native class hierarchy whose instances each carry
// one host-side override object.
//
// This package contains:
//   - Hierarchy: an arena of class nodes with index-based parent links
//   - Trampoline: a per-instance bridge that tries the host first and
//     falls back to the nearest ancestor's native default
//   - Bridge: registration, instance factory, and fallback resolution
//   - Ref: ancestor-typed views for native call sites
package bridge
