// Package canon provides the canonical value model used for descriptor
// identity.
//
// Descriptors are hashed and cached by a canonical JSON rendering of their
// kind, bare root, and argument collection. The rendering follows RFC 8785:
//   - Object keys sorted by UTF-16 code units
//   - No HTML escaping, no insignificant whitespace
//   - Strings NFC normalized
//
// canon imports nothing internal.
package canon
