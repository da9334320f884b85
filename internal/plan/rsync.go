package plan

import "fmt"

// RsyncExit explains an rsync exit status. host is the ssh destination,
// used in the suggestion for connection failures.
// See: https://download.samba.org/pub/rsync/rsync.1
func RsyncExit(status int, host string) (msg, suggestion string) {
	switch status {
	case 1:
		return "rsync syntax or usage error", "Check the flags passed after --"
	case 2:
		return "rsync protocol incompatibility", "Ensure rsync versions are compatible on local and remote"
	case 3:
		return "File selection error", "Check that source paths exist and are readable"
	case 5:
		return "Error starting client-server protocol", "Check the SSH connection and that rsync is installed on the target"
	case 10:
		return "Error in socket I/O", "Check network connectivity to the remote host"
	case 11:
		return "Error in file I/O", "Check disk space and file permissions on both ends"
	case 12:
		return "Error in rsync protocol data stream", "This may indicate a corrupted transfer, try again"
	case 23:
		return "Partial transfer due to error", "Some files may have permission issues, check the output above"
	case 24:
		return "Partial transfer due to vanished source files", "Files were modified during sync, this is usually harmless"
	case 255:
		return fmt.Sprintf("SSH connection to '%s' failed", host), "Check that the host is reachable: ssh " + host
	default:
		return fmt.Sprintf("rsync exited with code %d", status), "Check the output above for specific error details"
	}
}
