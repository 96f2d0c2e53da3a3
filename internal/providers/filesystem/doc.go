// Package filesystem imports host content into the virtual file system.
//
// Importer.Import walks a directory; Importer.ImportArchive lists a zip or
// tar archive (plain, gzip or zstd) without extracting it. Both produce
// flat nodes whose ids are derived from the slash-separated relative path,
// so importing a directory and an archive of it yields the same ids.
package filesystem
