/*
Package iterators provide iterator implementations.

# Summary

An Iterator's goal is to decouple the origin of the data from the consumer who uses that data.
Whether the values come from a single slice, a CSV file or a chain of tables stored in a bolt database,
the consumer only sees Next, Value, Err and Close.
An Iterator represents an iterable list of element,
which length is not known until it is fully iterated, thus can range from zero to infinity.

# Resources

https://en.wikipedia.org/wiki/Iterator_pattern
*/
package iterators
