package install

// FailureKind classifies why an install attempt did not produce a binary.
// The installer process never signals failure through its exit status, so
// this taxonomy is what callers and remediation text dispatch on.
type FailureKind int

const (
	// FailureNone means the install succeeded.
	FailureNone FailureKind = iota

	// FailureUnsupported means no release binary is published for this
	// platform.
	FailureUnsupported

	// FailureDownload means the asset could not be fetched: network
	// trouble, or a non-success HTTP status.
	FailureDownload

	// FailureVerify means the asset arrived but failed checksum or
	// signature verification.
	FailureVerify

	// FailureFilesystem means the binary could not be written, made
	// executable, or moved into place.
	FailureFilesystem

	// FailureInternal means the tooling itself is misconfigured, such as
	// a malformed pinned version.
	FailureInternal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureUnsupported:
		return "unsupported-platform"
	case FailureDownload:
		return "download"
	case FailureVerify:
		return "verification"
	case FailureFilesystem:
		return "filesystem"
	case FailureInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Result reports the outcome of an install attempt.
type Result struct {
	Installed bool
	Kind      FailureKind
	Version   string
	Path      string // final binary location when Installed
	URL       string // asset URL that was fetched
	Verified  bool   // checksum verification ran and passed
	Err       error
}
