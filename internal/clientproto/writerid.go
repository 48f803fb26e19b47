// Package clientproto implements the two client-facing protocols over the
// replica RPC surface: a non-blocking PUT/GET and a blocking variant that
// first acquires a per-key quorum of advisory locks.
package clientproto

import (
	"os"
	"strconv"
)

// WriterID returns the identity this client session stamps onto every tag
// it proposes. It is derived from the process id, so two client processes
// never collide, following the original ABD client's use of its own pid as
// client_id.
func WriterID() string {
	return strconv.Itoa(os.Getpid())
}
