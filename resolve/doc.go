// Package resolve implements the Resolver Registry: an ordered list of
// readers that fetch bytes for a given URL. Each resolver declares whether
// it can handle a URL; the first resolver (lowest Order) that declares it
// can, and that successfully reads, wins.
//
// Built-in resolvers cover filesystem and http(s) URLs, grounded on
// parser/resolver.go's ResolveExternal and ResolveHTTP from the teacher
// repository.
package resolve
