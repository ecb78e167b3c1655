package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*StoreOptions)(nil)

// StoreOptions contains configuration for the local state store.
type StoreOptions struct {
	// DataDir is the directory holding the local snapshot and roster files.
	DataDir string `json:"data-dir" mapstructure:"data-dir"`

	// SnapshotFile is the canonical unit snapshot file name inside DataDir.
	SnapshotFile string `json:"snapshot-file" mapstructure:"snapshot-file"`

	// RosterFile is the driver roster file name inside DataDir.
	RosterFile string `json:"roster-file" mapstructure:"roster-file"`

	// Watch enables reloading the store when the snapshot file is replaced
	// out-of-band (e.g. by a remote refresh).
	Watch bool `json:"watch" mapstructure:"watch"`
}

// NewStoreOptions creates a StoreOptions object with default parameters.
func NewStoreOptions() *StoreOptions {
	return &StoreOptions{
		DataDir:      "data",
		SnapshotFile: "camper-show-log.csv",
		RosterFile:   "all-drivers.json",
		Watch:        false,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *StoreOptions) Validate() []error {
	errors := []error{}

	if o.DataDir == "" {
		errors = append(errors, fmt.Errorf("store.data-dir must not be empty"))
	}
	if o.SnapshotFile == "" {
		errors = append(errors, fmt.Errorf("store.snapshot-file must not be empty"))
	}
	if o.RosterFile == "" {
		errors = append(errors, fmt.Errorf("store.roster-file must not be empty"))
	}

	return errors
}

// AddFlags adds flags related to the local state store to the specified FlagSet.
func (o *StoreOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.DataDir, "store.data-dir", o.DataDir, "Directory holding the local snapshot and roster files.")
	fs.StringVar(&o.SnapshotFile, "store.snapshot-file", o.SnapshotFile, "Canonical unit snapshot file name.")
	fs.StringVar(&o.RosterFile, "store.roster-file", o.RosterFile, "Driver roster file name.")
	fs.BoolVar(&o.Watch, "store.watch", o.Watch, "Reload the store when the snapshot file changes on disk.")
}
