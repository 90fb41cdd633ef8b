// platypuslog parses Platypus vehicle logs and prints a summary or exports
// the merged data.
//
//	platypuslog summary airboat_20130807_063622.txt
//	platypuslog csv -o out/ logs/*.txt
//	platypuslog --trim-ec 100 gpx -o track.gpx logs/*.txt.gz
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/labstack/gommon/bytes"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platypusllc/analytics/pkg/export"
	"github.com/platypusllc/analytics/pkg/logs"
	"github.com/platypusllc/analytics/pkg/utils"
)

var (
	settings utils.Settings
	envFile  string
	trimGap  int

	csvDir      string
	geojsonPath string
	gpxPath     string
)

var rootCmd = &cobra.Command{
	Use:   "platypuslog",
	Short: "Parse and export Platypus vehicle logs",
	Long: `platypuslog reads Platypus vehicle server logs (v4.0.0, v4.1.0 and v4.2.0,
optionally gzip or zstd compressed), merges them in the order given and
prints or exports the result.

Settings are read from PLATYPUS_* environment variables and an optional
.env file; flags override both.`,
	SilenceUsage:      true,
	PersistentPreRunE: configure,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <log>...",
	Short: "Print rows, time span and sampling interval per channel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args)
		if err != nil {
			return err
		}
		return printSummary(cmd, logs.Summarize(ds))
	},
}

var csvCmd = &cobra.Command{
	Use:   "csv -o <dir> <log>...",
	Short: "Write one CSV file per channel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args)
		if err != nil {
			return err
		}
		paths, err := export.WriteCSVDir(csvDir, ds)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", strings.Join(paths, ", "))
		return nil
	},
}

var geojsonCmd = &cobra.Command{
	Use:   "geojson -o <file> <log>...",
	Short: "Write the vehicle track as GeoJSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args)
		if err != nil {
			return err
		}
		if err := export.WriteGeoJSONFile(geojsonPath, ds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", geojsonPath)
		return nil
	},
}

var gpxCmd = &cobra.Command{
	Use:   "gpx -o <file> <log>...",
	Short: "Write the vehicle track as GPX",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(gpxPath), filepath.Ext(gpxPath))
		if err := export.WriteGPXFile(gpxPath, ds, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", gpxPath)
		return nil
	},
}

func init() {
	settings = utils.DefaultSettings()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env", ".env", "file to load PLATYPUS_* variables from")
	flags.IntVar(&settings.Procs, "procs", settings.Procs, "number of logs parsed concurrently")
	flags.Float64Var(&settings.Tolerance, "tolerance", settings.Tolerance, "pose outlier distance from the median in meters")
	flags.Float64Var(&settings.ECThreshold, "trim-ec", 0, "drop rows recorded while ES2 conductivity is below this value (0 keeps everything)")
	flags.IntVar(&trimGap, "trim-gap", logs.DefaultWindowGap, "ES2 rows a low conductivity window may skip")
	flags.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "trace, debug, info, warn or error")

	csvCmd.Flags().StringVarP(&csvDir, "output", "o", ".", "output directory")
	geojsonCmd.Flags().StringVarP(&geojsonPath, "output", "o", "track.geojson", "output file")
	gpxCmd.Flags().StringVarP(&gpxPath, "output", "o", "track.gpx", "output file")

	rootCmd.AddCommand(summaryCmd, csvCmd, geojsonCmd, gpxCmd)
}

// configure fills in the settings whose flags were not given from the
// environment.
func configure(cmd *cobra.Command, args []string) error {
	utils.LoadEnv(envFile)
	env, err := utils.SettingsFromEnv()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("procs") {
		settings.Procs = env.Procs
	}
	if !flags.Changed("tolerance") {
		settings.Tolerance = env.Tolerance
	}
	if !flags.Changed("trim-ec") {
		settings.ECThreshold = env.ECThreshold
	}
	if !flags.Changed("log-level") {
		settings.LogLevel = env.LogLevel
	}
	if settings.Procs < 1 {
		return fmt.Errorf("--procs must be at least 1, got %d", settings.Procs)
	}
	return utils.ConfigureLogging(settings.LogLevel)
}

func loadDataset(filenames []string) (logs.Dataset, error) {
	for _, filename := range filenames {
		info, err := os.Stat(filename)
		if err != nil {
			return nil, err
		}
		log.Infof("reading %s (%s)", filename, bytes.Format(info.Size()))
	}
	loader := logs.Loader{Tolerance: settings.Tolerance, Procs: settings.Procs}
	ds, err := loader.LoadFiles(filenames)
	if err != nil {
		return nil, err
	}
	if settings.ECThreshold > 0 {
		ds = logs.TrimByConductivity(ds, settings.ECThreshold, trimGap)
	}
	return ds, nil
}

func printSummary(cmd *cobra.Command, summary logs.Summary) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tROWS\tFIRST\tLAST\tMEAN INTERVAL\tMIN INTERVAL")
	for _, c := range summary.Channels {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", c.Channel, c.Rows,
			formatTime(c.First), formatTime(c.Last), c.MeanInterval.Round(time.Millisecond), c.MinInterval)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "track length: %.1f m\n", summary.TrackLength)
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(export.TimeFormat)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
