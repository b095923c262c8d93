package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trustsim/trustsim/sim"
	"github.com/trustsim/trustsim/sim/report"
	"github.com/trustsim/trustsim/sim/scenario"
)

var (
	// CLI flags for scenario synthesis
	seed              int64   // Seed for random scenario generation
	logLevel          string  // Log verbosity level
	principals        int     // Number of principals in the trust graph
	friendProbability float64 // Probability of a friendship edge between any two principals
	hosts             int     // Number of hosts in the fleet
	hostCapacity      int     // Capacity units per host
	vms               int     // Number of VMs to create
	vmUnits           int     // Capacity units per VM
	workloads         int     // Number of workloads to submit
	workloadUnitsMax  int     // Max units a workload occupies on its VM
	securityLevelMax  int     // Max workload security level (inclusive)
	durationMean      int     // Average workload duration (ticks)
	durationStdev     int     // Stddev workload duration
	durationMin       int     // Min workload duration
	durationMax       int     // Max workload duration
	submitSpacing     int64   // Ticks between consecutive workload submissions

	// CLI flags for the engine and policies
	simulationHorizon int64  // Total simulation time (in ticks)
	tickInterval      int64  // Ticks between utilization samples
	migrationDelay    int64  // Ticks a migration takes to complete
	policyConfigPath  string // Path to YAML policy bundle
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "trustsim",
	Short: "Discrete-event simulator for trust-aware resource placement",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the placement simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		bundle := &sim.PolicyBundle{}
		if policyConfigPath != "" {
			bundle, err = sim.LoadPolicyBundle(policyConfigPath)
			if err != nil {
				logrus.Fatalf("unable to read policy config; %v", err)
			}
		}
		if err := bundle.Validate(); err != nil {
			logrus.Fatalf("invalid policy config; %v", err)
		}

		synth, err := scenario.Synthesize(scenario.SynthConfig{
			Seed:              seed,
			Principals:        principals,
			FriendProbability: friendProbability,
			Hosts:             hosts,
			HostCapacity:      hostCapacity,
			VMs:               vms,
			VMUnits:           vmUnits,
			Workloads:         workloads,
			WorkloadUnitsMax:  workloadUnitsMax,
			SecurityLevelMax:  securityLevelMax,
			DurationMean:      durationMean,
			DurationStd:       durationStdev,
			DurationMin:       durationMin,
			DurationMax:       durationMax,
			SubmitSpacing:     submitSpacing,
		})
		if err != nil {
			logrus.Fatalf("unable to synthesize scenario; %v", err)
		}

		policy := sim.NewPlacementPolicy(bundle.Placement.Policy)
		selection := sim.NewVMSelectionPolicy(bundle.VMSelection)
		under, over := bundle.Thresholds(
			sim.DefaultUnderUtilizationThreshold, sim.DefaultOverUtilizationThreshold)
		trigger, err := sim.NewMigrationTrigger(policy, selection, under, over)
		if err != nil {
			logrus.Fatalf("invalid migration thresholds; %v", err)
		}

		logrus.Infof("Starting simulation with %d principals, %d hosts, %d VMs, %d workloads, policy=%s, horizon=%d ticks",
			principals, hosts, vms, workloads, policy.Name(), simulationHorizon)

		eng := scenario.NewEngine(scenario.EngineConfig{
			Horizon:        simulationHorizon,
			TickInterval:   tickInterval,
			MigrationDelay: migrationDelay,
		}, synth.Graph, policy, trigger)
		synth.Install(eng)
		stats := eng.Run()

		logrus.Infof("Simulation complete: %d VMs placed (%d failed), %d workloads finished (%d dropped), %d migrations",
			stats.VMsPlaced, stats.VMPlacementsFailed,
			stats.WorkloadsFinished, stats.WorkloadsDropped, stats.MigrationsFinished)

		fmt.Print(report.Build(synth.Population).String())
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random scenario generation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Trust graph and fleet configs
	runCmd.Flags().IntVar(&principals, "principals", 20, "Number of principals in the trust graph")
	runCmd.Flags().Float64Var(&friendProbability, "friend-probability", 0.2, "Probability of a friendship between any two principals")
	runCmd.Flags().IntVar(&hosts, "hosts", 10, "Number of hosts in the fleet")
	runCmd.Flags().IntVar(&hostCapacity, "host-capacity", 8, "Capacity units per host")
	runCmd.Flags().IntVar(&vms, "vms", 20, "Number of VMs to create")
	runCmd.Flags().IntVar(&vmUnits, "vm-units", 2, "Capacity units per VM")

	// Workload generation configs
	runCmd.Flags().IntVar(&workloads, "workloads", 100, "Number of workloads to submit")
	runCmd.Flags().IntVar(&workloadUnitsMax, "workload-units-max", 2, "Max units a workload occupies on its VM")
	runCmd.Flags().IntVar(&securityLevelMax, "security-level-max", 3, "Max workload security level (inclusive)")
	runCmd.Flags().IntVar(&durationMean, "duration", 50, "Average workload duration (ticks)")
	runCmd.Flags().IntVar(&durationStdev, "duration-stdev", 20, "Stddev workload duration")
	runCmd.Flags().IntVar(&durationMin, "duration-min", 5, "Min workload duration")
	runCmd.Flags().IntVar(&durationMax, "duration-max", 200, "Max workload duration")
	runCmd.Flags().Int64Var(&submitSpacing, "submit-spacing", 5, "Ticks between consecutive workload submissions")

	// Engine configs
	runCmd.Flags().Int64Var(&simulationHorizon, "horizon", 10000, "Total simulation horizon (in ticks)")
	runCmd.Flags().Int64Var(&tickInterval, "tick-interval", 10, "Ticks between utilization samples")
	runCmd.Flags().Int64Var(&migrationDelay, "migration-delay", 5, "Ticks a migration takes to complete")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "Path to YAML policy bundle (placement, vm selection, thresholds)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
