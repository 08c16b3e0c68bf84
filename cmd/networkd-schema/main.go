// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

// networkd-schema builds and maintains JSON Schema documents for systemd
// networkd configuration files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	networkdschema "github.com/networkd-schema/networkd-schema"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/networkd-schema/networkd-schema"
	_buildTime string
)

// cliOptions describes networkd-schema CLI flags and subcommands.
type cliOptions struct {
	Version   versionCommand   `command:"version" description:"Print version information"`
	Generate  generateCommand  `command:"generate" description:"Mine one systemd release into machine-generated schemas"`
	Derive    deriveCommand    `command:"derive" description:"Derive one curated schema across releases"`
	Build     buildCommand     `command:"build" description:"Run the full generate/derive/validate pipeline"`
	Validate  validateCommand  `command:"validate" description:"Validate schema documents"`
	Render    renderCommand    `command:"render" description:"Render a curated schema as a CommonMark reference"`
	Changelog changelogCommand `command:"changelog" description:"Compare two release directories and print a changelog"`
	INIToJSON iniToJSONCommand `command:"ini2json" description:"Convert a systemd INI file to schema-typed JSON"`
	JSONToINI jsonToINICommand `command:"json2ini" description:"Convert schema-typed JSON back to systemd INI"`
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// generateCommand mines one systemd release into machine-generated schemas.
type generateCommand struct {
	runner *cliRunner

	ReleaseVersion string `short:"v" long:"version" description:"Release tag (for example: v257)" required:"yes"`
	OutputDir      string `short:"o" long:"out" description:"Output directory for generated schemas" default:"."`
	RepoDir        string `short:"r" long:"repo" description:"Existing systemd source checkout (skips cloning)"`
	UpstreamURL    string `short:"u" long:"url" description:"Upstream repository URL override"`
}

// Execute runs generate subcommand.
func (command *generateCommand) Execute(_ []string) error {
	_, err := networkdschema.GenerateRelease(context.Background(), networkdschema.GenerateOptions{
		Version:     command.ReleaseVersion,
		OutputDir:   command.OutputDir,
		RepoDir:     command.RepoDir,
		UpstreamURL: command.UpstreamURL,
	}, command.runner.stdout)
	return err
}

// deriveCommand derives one curated schema from the curated base.
type deriveCommand struct {
	runner *cliRunner

	CuratedBase     string `long:"curated-base" description:"Hand-curated schema of the base release" required:"yes"`
	GeneratedBase   string `long:"generated-base" description:"Machine-generated schema of the base release" required:"yes"`
	GeneratedTarget string `long:"generated-target" description:"Machine-generated schema of the target release" required:"yes"`
	Output          string `short:"o" long:"out" description:"Output path for the derived schema" required:"yes"`
	IDURL           string `long:"id-url" description:"Canonical $id for the derived schema" required:"yes"`
	BaseVersion     string `long:"base-version" description:"Base release tag (for example: v257)" required:"yes"`
	TargetVersion   string `long:"target-version" description:"Target release tag (for example: v255)" required:"yes"`
}

// Execute runs derive subcommand.
func (command *deriveCommand) Execute(_ []string) error {
	_, err := networkdschema.DeriveCurated(networkdschema.DeriveOptions{
		CuratedBasePath:     command.CuratedBase,
		GeneratedBasePath:   command.GeneratedBase,
		GeneratedTargetPath: command.GeneratedTarget,
		OutputPath:          command.Output,
		BaseVersion:         command.BaseVersion,
		TargetVersion:       command.TargetVersion,
		IDURL:               command.IDURL,
	}, command.runner.stdout)
	return err
}

// buildCommand runs the full batch pipeline.
type buildCommand struct {
	runner *cliRunner

	ConfigPath     string `short:"c" long:"config" description:"Pipeline configuration file (YAML)"`
	ReleaseVersion string `short:"v" long:"version" description:"Build a single release instead of all configured ones"`
	Force          bool   `long:"force" description:"Regenerate machine snapshots even when present"`
}

// Execute runs build subcommand.
func (command *buildCommand) Execute(_ []string) error {
	config, err := networkdschema.LoadPipelineConfig(command.ConfigPath)
	if err != nil {
		return err
	}

	return networkdschema.RunPipeline(context.Background(), networkdschema.PipelineOptions{
		Config:  config,
		Version: command.ReleaseVersion,
		Force:   command.Force,
	}, command.runner.stdout)
}

// validateCommand validates schema documents.
type validateCommand struct {
	runner *cliRunner
	Args   struct {
		Files []string `positional-arg-name:"file" description:"Schema files to validate" required:"yes"`
	} `positional-args:"yes"`
}

// Execute runs validate subcommand.
func (command *validateCommand) Execute(_ []string) error {
	var failed int
	for _, path := range command.Args.Files {
		if err := networkdschema.ValidateFile(path); err != nil {
			fmt.Fprintf(command.runner.stderr, "FAIL %s\n", err)
			failed++
			continue
		}

		fmt.Fprintf(command.runner.stdout, "OK   %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed validation", failed)
	}

	return nil
}

// renderCommand renders a curated schema as a CommonMark reference.
type renderCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input schema file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	Title        string `short:"T" long:"title" description:"Markdown document title (defaults to the schema title)"`
	WrapWidth    int    `short:"w" long:"wrap" description:"Wrap width for descriptions" default:"80"`
	TemplatePath string `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(command.Args.Input, command.Args.Output, command.Title, command.WrapWidth, command.TemplatePath)
}

// changelogCommand compares two release directories.
type changelogCommand struct {
	runner *cliRunner
	Args   struct {
		PreviousDir string `positional-arg-name:"previous-dir" description:"Schema directory of the previous release" required:"yes"`
		CurrentDir  string `positional-arg-name:"current-dir" description:"Schema directory of the current release" required:"yes"`
		Output      string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	PreviousVersion string `long:"previous-version" description:"Previous release tag shown in the heading"`
	CurrentVersion  string `long:"current-version" description:"Current release tag shown in the heading"`
}

// Execute runs changelog subcommand.
func (command *changelogCommand) Execute(_ []string) error {
	changes, err := networkdschema.CompareReleaseDirs(command.Args.PreviousDir, command.Args.CurrentDir)
	if err != nil {
		return err
	}

	previous := command.PreviousVersion
	if previous == "" {
		previous = filepath.Base(command.Args.PreviousDir)
	}

	current := command.CurrentVersion
	if current == "" {
		current = filepath.Base(command.Args.CurrentDir)
	}

	rendered := networkdschema.RenderChangelog(changes, previous, current)
	return command.runner.writeOutput(command.Args.Output, rendered)
}

// iniToJSONCommand converts systemd INI to schema-typed JSON.
type iniToJSONCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input INI file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output JSON file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	SchemaPath string `short:"s" long:"schema" description:"Schema used for value typing" required:"yes"`
}

// Execute runs ini2json subcommand.
func (command *iniToJSONCommand) Execute(_ []string) error {
	schema, err := networkdschema.LoadDocument(command.SchemaPath)
	if err != nil {
		return err
	}

	reader, closeInput, err := command.runner.openInput(command.Args.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	doc, err := networkdschema.INIToJSON(reader, schema)
	if err != nil {
		return err
	}

	data, err := networkdschema.EncodeDocument(doc)
	if err != nil {
		return err
	}

	return command.runner.writeOutput(command.Args.Output, string(data)+"\n")
}

// jsonToINICommand converts schema-typed JSON back to systemd INI.
type jsonToINICommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input JSON file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output INI file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`
}

// Execute runs json2ini subcommand.
func (command *jsonToINICommand) Execute(_ []string) error {
	reader, closeInput, err := command.runner.openInput(command.Args.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	doc, err := networkdschema.ParseDocument(data)
	if err != nil {
		return err
	}

	var out strings.Builder
	if err := networkdschema.JSONToINI(doc, &out); err != nil {
		return err
	}

	return command.runner.writeOutput(command.Args.Output, out.String())
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "networkd-schema"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runRender executes the render flow and writes result to stdout or file.
func (runner *cliRunner) runRender(inputPath, outputPath, title string, wrapWidth int, templatePath string) error {
	renderOptions := networkdschema.RenderOptions{
		Title:     title,
		WrapWidth: wrapWidth,
	}

	if templatePath != "" {
		customTemplate, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("read template file %q: %w", templatePath, err)
		}

		renderOptions.TemplateText = string(customTemplate)
	}

	var rendered string
	var err error
	if strings.TrimSpace(inputPath) != "" {
		rendered, err = networkdschema.RenderReferenceFile(inputPath, renderOptions)
	} else {
		var data []byte
		data, err = io.ReadAll(runner.stdin)
		if err != nil {
			return fmt.Errorf("read schema from stdin: %w", err)
		}

		var doc networkdschema.Document
		doc, err = networkdschema.ParseDocument(data)
		if err != nil {
			return err
		}

		renderOptions.SourcePath = "(stdin)"
		rendered, err = networkdschema.RenderReference(doc, renderOptions)
	}

	if err != nil {
		return err
	}

	return runner.writeOutput(outputPath, rendered)
}

// openInput opens a file path or falls back to stdin.
func (runner *cliRunner) openInput(path string) (io.Reader, func(), error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return runner.stdin, func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input file %q: %w", path, err)
	}

	return file, func() { _ = file.Close() }, nil
}

// writeOutput writes content to a file path or stdout when path is empty.
func (runner *cliRunner) writeOutput(path, content string) error {
	if strings.TrimSpace(path) == "" {
		if _, err := io.WriteString(runner.stdout, content); err != nil {
			return fmt.Errorf("write to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write output file %q: %w", path, err)
	}

	return nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Generate.runner = runner
	options.Derive.runner = runner
	options.Build.runner = runner
	options.Validate.runner = runner
	options.Render.runner = runner
	options.Changelog.runner = runner
	options.INIToJSON.runner = runner
	options.JSONToINI.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"generate": strings.TrimSpace(fmt.Sprintf(`
Clone one systemd release tag and mine its man pages and parser tables into
machine-generated JSON Schema documents, one per configuration file family.

Examples:
> $ %s generate -v v257 -o src/original/v257
> $ %s generate -v v255 -r /path/to/systemd -o out
`, programName, programName)),
		"build": strings.TrimSpace(fmt.Sprintf(`
Run the full pipeline: generate machine snapshots for every configured
release, emit or derive the curated lineage, then validate the results.

Examples:
> $ %s build
> $ %s build -v v255 --force
`, programName, programName)),
		"ini2json": strings.TrimSpace(fmt.Sprintf(`
Convert a systemd INI file to JSON typed by a schema.
Reads from file argument or stdin; writes JSON to file argument or stdout.

Examples:
> $ %s ini2json -s schemas/v257/systemd.network.schema.json eth0.network
> $ cat eth0.network | %s ini2json -s schemas/v257/systemd.network.schema.json
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build metadata to the runner's stdout.
func (runner *cliRunner) printVersionInfo() {
	fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
