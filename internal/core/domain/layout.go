package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal workspace directory.
	StateDirName = ".gridmaven"

	// RunStateDirName is the name of the persisted run state directory.
	RunStateDirName = "state"

	// WorkspaceDirName is the name of the worker build workspace directory.
	WorkspaceDirName = "workspace"

	// SocketDirName is the name of the directory holding local worker sockets.
	SocketDirName = "sockets"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "gridmaven.yaml"

	// DescriptorYAML is the conventional module descriptor file name.
	DescriptorYAML = "module.yaml"

	// DescriptorHCL is the alternative module descriptor file name.
	DescriptorHCL = "module.hcl"

	// DebugLogFile is the name of the worker daemon log file.
	DebugLogFile = "worker.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm restricts a worker socket to its owner (rw-------).
	SocketPerm = 0o600

	// PIDFileExt is appended to a worker socket path to name its PID file.
	PIDFileExt = ".pid"
)

// DefaultStatePath returns the default path for persisted run state.
// It joins .gridmaven and state.
func DefaultStatePath() string {
	return filepath.Join(StateDirName, RunStateDirName)
}

// DefaultWorkspacePath returns the default root for worker build workspaces.
// It joins .gridmaven and workspace.
func DefaultWorkspacePath() string {
	return filepath.Join(StateDirName, WorkspaceDirName)
}

// DefaultSocketDir returns the default directory for local worker sockets.
// It joins .gridmaven and sockets.
func DefaultSocketDir() string {
	return filepath.Join(StateDirName, SocketDirName)
}

// DefaultDebugLogPath returns the default path for the worker daemon log.
// It joins .gridmaven and worker.log.
func DefaultDebugLogPath() string {
	return filepath.Join(StateDirName, DebugLogFile)
}
