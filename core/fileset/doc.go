// Package fileset holds the in-memory file set a build operates on.
//
// A FileSet maps slash-separated paths, relative to the source root, to file
// contents. Sources materialise it from an afero filesystem (ReadFs) or an
// object storage bucket (ReadBucket); sinks write whatever plugins left in it
// back out (WriteFs, WriteBucket). Plugins enumerate, read and delete entries.
package fileset
