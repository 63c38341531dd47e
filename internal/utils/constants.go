package utils

const (
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".summarize.yaml"
	// GlobalConfigDirectoryName is created under the user's home directory.
	GlobalConfigDirectoryName = ".summarize"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

const (
	// LoggerInitializationFailedMessageFormat is printed when zap cannot be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %v\n"
	// ApplicationExecutionFailedMessage is the fatal log message for a failed run.
	ApplicationExecutionFailedMessage = "summarize failed"
)
