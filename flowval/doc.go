/*
Package flowval implements the narrow flow-value grammar embedded in
dct.txt lines: flow scalars, flow sequences and flow mappings, always
on a single line.

Parsing uses the yaml flow grammar underneath but resolves scalars
locally, so a parsed value is always one of: nil, bool, int64, float64,
string, []any or *Map. Rendering is the exact inverse: RenderValue and
RenderMapping produce text that parses back to an equal value.
*/
package flowval
