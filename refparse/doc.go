// Package refparse turns the bytes a resolve.Resolver reads into a JSON-
// compatible value tree: null, bool, number, string, ordered map, or
// sequence. Parsers are selected the same way resolvers are — an ordered,
// pluggable Registry tries each candidate in turn.
package refparse
