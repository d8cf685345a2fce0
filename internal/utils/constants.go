package utils

const (
	// EmptyString represents a reusable empty string constant.
	EmptyString = ""

	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal run errors.
	ApplicationExecutionFailedMessage = "dirtree failed"
)

// Well-known file and directory names.
const (
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".dirtree.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".dirtree"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// DefaultOutputFileName is the file the rendered tree is written to unless configured otherwise.
	DefaultOutputFileName = "estructura.txt"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)
