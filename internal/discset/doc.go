// Package discset recognizes multi-disc image filenames and groups them into series.
//
// A disc image belongs to a set when its name has the shape
//
//	<series key> (Disc <n>)<anything><extension>
//
// with the "(Disc" token and the extension matched case-insensitively. Names
// that already carry the playlist prefix are matched as if the prefix were
// absent, so a directory that was processed before yields the same series
// and the same playlist entries again.
package discset
