package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Retryixagi/ZHCL/pkg/config"
	"github.com/Retryixagi/ZHCL/pkg/diag"
	"github.com/Retryixagi/ZHCL/pkg/dump"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
	"github.com/Retryixagi/ZHCL/pkg/lsp"
	"github.com/Retryixagi/ZHCL/pkg/parser"
)

var version = "0.1.0"

// Debug flags for dumping intermediate results
var (
	dParse  bool
	dTokens bool
	check   bool
)

// Settings that override zhcc.toml when given
var (
	configPath       string
	formatFlag       string
	legacyPrecedence bool
	logLevel         string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// accept gcc-style single-dash debug flags
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the flags that also accept a single dash
var debugFlagNames = []string{"dparse", "dtokens"}

// normalizeFlags converts single-dash flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, name := range debugFlagNames {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zhcc [file...]",
		Short: "zhcc parses a subset of C and reports syntax errors",
		Long: `zhcc is a recursive-descent parser for a subset of C. It checks
source files, dumps tokens or the syntax tree, and can run as a
language server that publishes parse diagnostics.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(errOut, "zhcc: %v\n", err)
				return err
			}
			logger, err := newLogger(errOut, cfg)
			if err != nil {
				fmt.Fprintf(errOut, "zhcc: %v\n", err)
				return err
			}
			defer logger.Sync()

			d := &driver{
				out:    out,
				errOut: errOut,
				cfg:    cfg,
				log:    logger,
			}

			var errs error
			for _, filename := range args {
				errs = multierr.Append(errs, d.processFile(filename))
			}
			if n := len(multierr.Errors(errs)); n > 1 {
				fmt.Fprintf(errOut, "zhcc: %d of %d files failed\n", n, len(args))
			}
			return errs
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump after parsing")
	rootCmd.Flags().BoolVarP(&dTokens, "dtokens", "", false, "Dump the token stream")
	rootCmd.Flags().BoolVar(&check, "check", false, "Print diagnostics as LSP JSON")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", string(dump.C), "AST dump format (c, json, yaml)")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to "+config.FileName)
	rootCmd.PersistentFlags().BoolVar(&legacyPrecedence, "legacy-precedence", false, "Parse bitwise and directly over relational")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newLSPCmd(errOut))
	return rootCmd
}

func newLSPCmd(errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the diagnostics language server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(errOut, "zhcc: %v\n", err)
				return err
			}
			logger, err := newLogger(errOut, cfg)
			if err != nil {
				fmt.Fprintf(errOut, "zhcc: %v\n", err)
				return err
			}
			defer logger.Sync()

			lsp.Version = version
			srv := lsp.NewServer(logger, parserOptions(cfg, logger)...)
			return srv.Serve(cmd.Context(), stdio{cmd.InOrStdin(), cmd.OutOrStdout()})
		},
	}
}

// stdio joins the command's input and output into one stream
type stdio struct {
	io.Reader
	io.Writer
}

func (s stdio) Close() error {
	var err error
	if c, ok := s.Reader.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	if c, ok := s.Writer.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// loadConfig reads zhcc.toml and applies flags the user set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = dump.Format(formatFlag)
	}
	if flags.Changed("legacy-precedence") {
		cfg.Parser.LegacyPrecedence = legacyPrecedence
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Named("zhcc"), nil
}

func parserOptions(cfg *config.Config, logger *zap.Logger) []parser.Option {
	return []parser.Option{
		parser.WithLogger(logger),
		parser.WithLegacyPrecedence(cfg.Parser.LegacyPrecedence),
	}
}

type driver struct {
	out, errOut io.Writer
	cfg         *config.Config
	log         *zap.Logger
}

// processFile runs the requested dumps for one file
func (d *driver) processFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(d.errOut, "zhcc: error reading %s: %v\n", filename, err)
		return err
	}
	src := string(content)

	if dTokens {
		if err := dump.Tokens(d.out, lexer.Tokenize(src)); err != nil {
			return err
		}
	}

	prog, perr := parser.ParseSource(src, parserOptions(d.cfg, d.log)...)

	if check {
		return d.doCheck(filename, src, perr)
	}
	if perr != nil {
		diag.Report(d.errOut, filename, src, perr)
		return fmt.Errorf("%s: %w", filename, perr)
	}
	d.log.Info("parsed", zap.String("file", filename), zap.Int("definitions", len(prog.Definitions)))

	if !dParse {
		return nil
	}

	outputFilename := parsedOutputFilename(filename)
	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(d.errOut, "zhcc: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	if err := dump.Write(outFile, prog, dump.C); err != nil {
		return err
	}
	// Also print to stdout in the configured format
	return dump.Write(d.out, prog, d.cfg.Output.Format)
}

// doCheck prints the diagnostics for filename as publishDiagnostics JSON
func (d *driver) doCheck(filename, src string, perr error) error {
	path, err := filepath.Abs(filename)
	if err != nil {
		path = filename
	}
	data, err := json.Marshal(diag.Publish(path, 0, src, perr))
	if err != nil {
		return err
	}
	fmt.Fprintln(d.out, string(data))
	if perr != nil {
		return fmt.Errorf("%s: %w", filename, perr)
	}
	return nil
}

// parsedOutputFilename returns the output filename for -dparse
func parsedOutputFilename(filename string) string {
	ext := ".c"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + ".parsed.c"
	}
	return filename + ".parsed.c"
}
