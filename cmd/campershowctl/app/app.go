package app

import (
	"fmt"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/service"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/report"
)

const defaultServer = "http://localhost:8480"

// NewCommand builds the full campershowctl command tree.
func NewCommand() *cobra.Command {
	var serverURL string

	root := &cobra.Command{
		Use:           "campershowctl",
		Short:         "Command line client for the campershow server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "Base URL of the campershow server.")

	c := func() *client { return newClient(serverURL) }

	root.AddCommand(
		newUnitsCommand(c),
		newDriversCommand(c),
		newAssignCommand(c),
		newSummaryCommand(c),
		newShowCommand(c),
		newSnapshotCommand(c),
	)

	return root
}

// Run executes the command tree and exits non-zero on failure.
func Run() {
	if err := NewCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newUnitsCommand(c func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Inspect and import units",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all units",
		RunE: func(_ *cobra.Command, _ []string) error {
			var units []*model.Unit
			if err := c().get("/api/v1/units", &units); err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("ID", "MAKE", "VIN", "TYPE", "LOCATION", "DRIVER", "ROUND", "STATUS")
			for _, u := range units {
				table.AddRow(u.ID, u.Make, u.DisplayVIN(), string(u.Type),
					u.Location, u.AssignedTo, roundCell(u.RoundNumber), statusCell(u))
			}
			fmt.Println(table)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Import a unit snapshot file, replacing current units",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var out struct {
				Imported int `json:"imported"`
			}
			if err := c().postRaw("/api/v1/units/import", "text/csv", data, &out); err != nil {
				return err
			}
			fmt.Printf("Imported %d units\n", out.Imported)
			return nil
		},
	})

	return cmd
}

func newDriversCommand(c func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Manage the driver roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the driver roster",
		RunE: func(_ *cobra.Command, _ []string) error {
			var roster model.Roster
			if err := c().get("/api/v1/drivers", &roster); err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("NAME", "CAPABILITY")
			for _, name := range roster.AllDrivers() {
				capability := "fifth-wheel"
				if roster.BumperPullOnly(name) {
					capability = "bumper-pull only"
				}
				table.AddRow(name, capability)
			}
			fmt.Println(table)
			return nil
		},
	})

	var bumperPullOnly bool
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a driver to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			in := map[string]any{"name": args[0], "bumperPullOnly": bumperPullOnly}
			return c().post("/api/v1/drivers", in, nil)
		},
	}
	add.Flags().BoolVar(&bumperPullOnly, "bumper-pull-only", false, "Restrict the driver to bumper-pull and park units.")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a driver and unassign the units they hold",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c().delete("/api/v1/drivers/" + args[0])
		},
	})

	return cmd
}

func newAssignCommand(c func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Run and adjust driver assignment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the round-robin assignment engine",
		RunE: func(_ *cobra.Command, _ []string) error {
			var result service.Result
			if err := c().post("/api/v1/assignments/run", nil, &result); err != nil {
				return err
			}
			fmt.Printf("Assigned %d units over %d rounds (%d left unassigned)\n",
				result.AssignedCount, result.Rounds, result.Unassigned)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Unassign every unit not yet picked up",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c().post("/api/v1/assignments/unassign-unpicked", nil, nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unit UNIT_ID DRIVER",
		Short: "Manually assign one unit to a driver",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			in := map[string]string{"driver": args[1]}
			return c().post("/api/v1/units/"+args[0]+"/assign", in, nil)
		},
	})

	return cmd
}

func newSummaryCommand(c func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show assignment summaries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "by-driver",
		Short: "Units grouped per driver",
		RunE: func(_ *cobra.Command, _ []string) error {
			var groups []report.DriverGroup
			if err := c().get("/api/v1/summary/by-driver", &groups); err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("DRIVER", "MAKE", "VIN", "LOCATION")
			for _, g := range groups {
				name := g.Driver
				if g.BumperPull {
					name += " (BP)"
				}
				for _, line := range g.Units {
					table.AddRow(name, line.Make, line.VIN, line.Location)
					name = ""
				}
			}
			fmt.Println(table)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "by-location",
		Short: "Units grouped per lot location",
		RunE: func(_ *cobra.Command, _ []string) error {
			var summary report.LocationSummary
			if err := c().get("/api/v1/summary/by-location", &summary); err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("LOCATION", "DRIVER", "MAKE", "VIN")
			for _, loc := range summary.Locations {
				label := loc.Location
				for _, g := range loc.Drivers {
					for _, line := range g.Units {
						table.AddRow(label, g.Driver, line.Make, line.VIN)
						label = ""
					}
				}
			}
			table.AddRow("", "", "", "")
			table.AddRow("FW TOTAL", summary.FifthWheelTotal, "", "")
			table.AddRow("BP TOTAL", summary.BumperPullTotal, "", "")
			fmt.Println(table)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "totals",
		Short: "Per-driver unit counts and the grand total",
		RunE: func(_ *cobra.Command, _ []string) error {
			var totals report.TotalsSummary
			if err := c().get("/api/v1/summary/totals", &totals); err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("DRIVER", "UNITS")
			for _, d := range totals.Drivers {
				table.AddRow(d.Driver, d.Count)
			}
			table.AddRow("TOTAL", totals.GrandTotal)
			fmt.Println(table)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rounds",
		Short: "Units grouped by assignment round",
		RunE: func(_ *cobra.Command, _ []string) error {
			var out struct {
				Rounds          []report.RoundGroup `json:"rounds"`
				CompletedRounds []int               `json:"completedRounds"`
			}
			if err := c().get("/api/v1/summary/rounds", &out); err != nil {
				return err
			}
			completed := make(map[int]bool, len(out.CompletedRounds))
			for _, r := range out.CompletedRounds {
				completed[r] = true
			}
			table := uitable.New()
			table.AddRow("ROUND", "MAKE", "VIN", "DRIVER", "STATUS")
			for _, r := range out.Rounds {
				label := fmt.Sprintf("%d", r.Round)
				if completed[r.Round] {
					label += " (done)"
				}
				for _, u := range r.Units {
					table.AddRow(label, u.Make, u.DisplayVIN(), u.AssignedTo, statusCell(u))
					label = ""
				}
			}
			fmt.Println(table)
			return nil
		},
	})

	return cmd
}

func newShowCommand(c func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show lifecycle operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "end NAME",
		Short: "Archive the current show remotely and clear local state",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c().post("/api/v1/show/end", map[string]string{"name": args[0]}, nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Replace local state with the remote canonical snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			var out struct {
				Units int `json:"units"`
			}
			if err := c().post("/api/v1/show/refresh", nil, &out); err != nil {
				return err
			}
			fmt.Printf("Refreshed %d units from remote\n", out.Units)
			return nil
		},
	})

	return cmd
}

func newSnapshotCommand(c func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the canonical snapshot document",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := c().getRaw("/api/v1/snapshot")
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
			return nil
		},
	}
}

func roundCell(round int) string {
	if round == 0 {
		return ""
	}
	return fmt.Sprintf("%d", round)
}

func statusCell(u *model.Unit) string {
	switch {
	case u.Delivered():
		return "delivered"
	case u.PickedUp():
		return "picked up"
	default:
		return "pending"
	}
}
