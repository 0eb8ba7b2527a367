package domain

import "go.trai.ch/zerr"

var (
	// ErrNoSuchDescriptor is returned when the root module descriptor cannot be read.
	ErrNoSuchDescriptor = zerr.New("no such module descriptor")

	// ErrMalformedDescriptor is returned when a module descriptor cannot be decoded.
	ErrMalformedDescriptor = zerr.New("malformed module descriptor")

	// ErrEmbedderFailure is returned when the descriptor interpretation engine itself fails.
	ErrEmbedderFailure = zerr.New("descriptor engine failure")

	// ErrDuplicateModule is returned when two descriptors in one reactor share a module id.
	ErrDuplicateModule = zerr.New("duplicate module")

	// ErrModuleNotFound is returned when a requested module is not part of the graph.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrInvalidCoordinate is returned when a descriptor is missing its group or artifact.
	ErrInvalidCoordinate = zerr.New("module coordinate requires group and artifact")

	// ErrSourceNotFound is returned when there is nothing to stage or fetch at a path or key.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrStoreUnavailable is returned when the blob store cannot be reached or rejects a request.
	ErrStoreUnavailable = zerr.New("artifact store unavailable")

	// ErrCorruptArchive is returned when a downloaded archive cannot be decoded.
	ErrCorruptArchive = zerr.New("corrupt archive")

	// ErrArchiveFailed is returned when a local tree cannot be archived.
	ErrArchiveFailed = zerr.New("failed to archive tree")

	// ErrWorkerUnreachable is returned when a worker cannot be acquired or connected to.
	ErrWorkerUnreachable = zerr.New("worker unreachable")

	// ErrLifecycleAborted is returned when a reporter callback fails during a build.
	ErrLifecycleAborted = zerr.New("lifecycle aborted")

	// ErrAsyncTaskFailed is returned when a side task registered during a build fails.
	ErrAsyncTaskFailed = zerr.New("async task failed")

	// ErrProtocolViolation is returned when a worker sends events out of lifecycle order.
	ErrProtocolViolation = zerr.New("worker protocol violation")

	// ErrPoolClosed is returned when acquiring from a closed worker pool.
	ErrPoolClosed = zerr.New("worker pool closed")

	// ErrStepFailed is returned when a build tool step exits unsuccessfully.
	ErrStepFailed = zerr.New("build step failed")

	// ErrStagingFailed is returned when a module's sources cannot be staged.
	ErrStagingFailed = zerr.New("failed to stage module sources")

	// ErrPublishFailed is returned when a module's output cannot be published.
	ErrPublishFailed = zerr.New("failed to publish module output")

	// ErrInvalidTransition is returned when the orchestrator moves between run states illegally.
	ErrInvalidTransition = zerr.New("invalid run state transition")

	// ErrUnknownResult is returned when parsing an unknown result name.
	ErrUnknownResult = zerr.New("unknown build result")

	// ErrEnqueueFailed is returned when the host queue rejects a downstream job.
	ErrEnqueueFailed = zerr.New("failed to enqueue downstream job")

	// ErrStoreCreateFailed is returned when the run state directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create run state directory")

	// ErrStoreReadFailed is returned when run state cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read run state")

	// ErrStoreUnmarshalFailed is returned when run state cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal run state")

	// ErrStoreMarshalFailed is returned when run state cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal run state")

	// ErrStoreWriteFailed is returned when run state cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write run state")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no gridmaven.yaml is found.
	ErrConfigNotFound = zerr.New("could not find gridmaven.yaml")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrEnvFileReadFailed is returned when the configured env file cannot be read.
	ErrEnvFileReadFailed = zerr.New("failed to read env file")

	// ErrBuildFailed is returned when the composite run result is not successful.
	ErrBuildFailed = zerr.New("build failed")

	// ErrFailedToGetRoot is returned when the reactor root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of reactor root")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrDaemonNotRunning is returned when no worker daemon answers on a socket.
	ErrDaemonNotRunning = zerr.New("worker daemon not running")
)

// AbortError is an expected run failure carrying a human readable cause.
// The orchestrator logs it without diagnostics and ends the run with FAILURE.
type AbortError struct {
	Cause string
}

// NewAbortError creates an AbortError.
func NewAbortError(cause string) *AbortError {
	return &AbortError{Cause: cause}
}

func (e *AbortError) Error() string {
	return e.Cause
}
