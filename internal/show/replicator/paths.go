package replicator

import (
	"fmt"
	"strings"
	"time"
)

// Remote object layout. One bucket, four areas:
//
//	current/          the canonical active-show snapshot
//	assignments/      timestamped snapshot written after every assignment run
//	drivers/          the driver roster consumed by the portal
//	archived-shows/   closed shows, keyed by the name given at end-of-show
const (
	KeyCurrentShow  = "current/camper-show-log.csv"
	KeyDriverRoster = "drivers/all-drivers.json"

	assignmentPrefix = "assignments/"
	archivePrefix    = "archived-shows/"
)

// AssignmentKey returns the timestamped object key for an assignment-run
// snapshot.
func AssignmentKey(t time.Time) string {
	return fmt.Sprintf("%scamper-show-log-%s.csv", assignmentPrefix, t.Format("20060102_150405"))
}

// ArchiveKey returns the archive object key for a closed show. Slashes in
// the user-supplied name would change the object path, so they are
// replaced; an empty name archives as "UnnamedShow".
func ArchiveKey(showName string) string {
	name := strings.TrimSpace(showName)
	if name == "" {
		name = "UnnamedShow"
	}
	name = strings.ReplaceAll(name, "/", "-")
	return archivePrefix + name + ".csv"
}
