// Package chunk reads, validates and writes the chunks of PNG, MNG and JNG
// datastreams.
//
// A raw Chunk is the wire unit {length, tag, payload, CRC}. Decode turns a
// raw chunk into a typed Record (one struct per registered tag, Unknown for
// unregistered ancillary tags) and Encode turns any Record back into a raw
// chunk, so that Decode(Encode(r)) == r for every valid record.
//
// Decoders fill omitted optional fields with their documented defaults, and
// encoders emit the shortest legal form that decodes to the same record.
package chunk
