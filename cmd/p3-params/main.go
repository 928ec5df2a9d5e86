package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	p3assembly "github.com/olsonanl/p3-assembly"
	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

var (
	verbose  bool
	specPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "p3-params",
	Short: "Validate and normalize assembly service parameter documents",
	Long: `p3-params works with the parameter schema of the genome assembly
service: it lints schema documents, validates and normalizes submitted
parameter sets, exports the schema as OpenAPI, and builds submissions
interactively.

Without --spec it uses the embedded GenomeAssembly schema.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&specPath, "spec", "", "schema document path or URL (default: embedded GenomeAssembly schema)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(promptCmd)
}

// loadSpec resolves the --spec flag into a parsed AppSpec.
func loadSpec(cmd *cobra.Command, parserOpts ...appspec.ParserOption) (appspec.AppSpec, error) {
	ctx := cmd.Context()

	var src appspec.Source
	var loaderOpts []appspec.LoaderOption
	switch path := strings.TrimSpace(specPath); {
	case path == "":
		logger.Debug("using embedded schema")
		src = appspec.SourceFromFS(appspec.GenomeAssemblySpecName)
		loaderOpts = append(loaderOpts, appspec.WithFileSystem(appspec.EmbeddedFS()))
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		logger.Debug("loading schema over HTTP", zap.String("url", path))
		remote, err := appspec.SourceFromURL(path)
		if err != nil {
			return appspec.AppSpec{}, err
		}
		src = remote
		loaderOpts = append(loaderOpts, appspec.WithHTTPFallback(30*time.Second))
	default:
		logger.Debug("loading schema from file", zap.String("path", path))
		src = appspec.SourceFromFile(path)
	}

	doc, err := p3assembly.NewLoader(loaderOpts...).Load(ctx, src)
	if err != nil {
		return appspec.AppSpec{}, err
	}
	return p3assembly.NewParser(parserOpts...).Parse(ctx, doc)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
