/*
Package variant provides the dynamic value type used for samples and message payloads.

A Value is a tagged union over null, bool, number, string, array and object.
Accessors never panic: each returns the converted value together with a flag
reporting whether the Value held the requested kind.
*/
package variant
