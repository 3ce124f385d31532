package config

const SourceFileExt = ".vl"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".vl", ".varlens"}

// DefaultMaxValueLen caps rendered values in trace events.
const DefaultMaxValueLen = 120

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".varlens.yaml"

// DefaultHistoryFile is the run-history database file name, created under
// the user's state directory unless overridden.
const DefaultHistoryFile = "history.db"
