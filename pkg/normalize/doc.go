// Package normalize converts raw stored property values into canonical typed
// forms. Values arrive in inconsistent shapes (bare string, {id,name} object,
// array of either) depending on how the writing client serialized them;
// every downstream filter and result-mapping step goes through this package
// so shape-sniffing lives in exactly one place.
//
// All functions are pure and never fail: unrecognized shapes normalize to
// nil/empty, and unrecognized status or priority strings pass through
// unchanged rather than erroring.
package normalize
