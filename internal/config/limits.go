package config

const (
	// MaxBranchNameLength is the maximum length for branch names.
	// Limited to 255 to fit comfortably in index entries and provide
	// reasonable UX (names should be short and descriptive).
	MaxBranchNameLength = 255

	// MaxDocumentTitleLength is the maximum length for document titles.
	MaxDocumentTitleLength = 255

	// MaxCommitMessageLength is the maximum length for commit messages.
	MaxCommitMessageLength = 1000

	// MaxChangeDescriptionLength is the maximum length for pending-change
	// descriptions. Descriptions become commit messages on acceptance, so
	// they share the commit-message cap.
	MaxChangeDescriptionLength = MaxCommitMessageLength

	// MaxRequestReasonLength is the maximum length for branch-request
	// rationales.
	MaxRequestReasonLength = 2000

	// DefaultVersionPageSize is the page size for version listings when the
	// caller does not ask for one.
	DefaultVersionPageSize = 50

	// MaxVersionPageSize caps version listing pages so history walks stay
	// finite per request.
	MaxVersionPageSize = 200
)
