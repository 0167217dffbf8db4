package config

const (
	// DefaultToolMaxResultChars caps the serialized spreadsheet handed back to
	// the model, keeping a single sheet read inside the context window.
	DefaultToolMaxResultChars = 100000

	// DefaultArchiveResultLimit is how many archive documents one search returns.
	DefaultArchiveResultLimit = 3

	// MaxArchiveResultLimit bounds ARCHIVE_RESULT_LIMIT.
	MaxArchiveResultLimit = 20

	// DefaultKeepAliveSeconds is the blank-line keep-alive interval on /chat.
	DefaultKeepAliveSeconds = 10

	// DefaultLogMaxFiles is how many server log files are kept in LOG_DIR.
	DefaultLogMaxFiles = 10

	// MaxChatMessages bounds the transcript accepted by POST /chat.
	MaxChatMessages = 200

	// MaxChatRequestBytes limits the POST /chat body.
	MaxChatRequestBytes = 10 << 20
)
