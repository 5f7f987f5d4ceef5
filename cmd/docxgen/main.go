// Command docxgen builds WordprocessingML packages from document scripts
// and inspects the packages it produces.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/tribal2/docx/core/cas"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/pack"
	"github.com/tribal2/docx/core/script"
	"github.com/tribal2/docx/core/xml"
	"github.com/tribal2/docx/internal/config"
	"github.com/tribal2/docx/internal/logging"
	"github.com/tribal2/docx/internal/validation"
)

const version = "0.1.0"

// CLI defines the command-line interface for docxgen.
type CLI struct {
	// Global flags
	Config    string `help:"Config file (default: $DOCXGEN_CONFIG)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: text or json"`

	Build   BuildCmd   `cmd:"" help:"Build a .docx package from a document script"`
	Inspect InspectCmd `cmd:"" help:"Show the parts, relationships and comments of a package"`
	Digest  DigestCmd  `cmd:"" help:"Print the BLAKE3 digest of a file"`
	Store   StoreGroup `cmd:"" help:"Package store operations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// StoreGroup contains package store operations.
type StoreGroup struct {
	Ls  StoreLsCmd  `cmd:"" help:"List stored packages, newest first"`
	Get StoreGetCmd `cmd:"" help:"Write a stored package to a file"`
}

// app carries what every command needs. It is bound into kong so each
// Run method receives it.
type app struct {
	ctx    context.Context
	out    io.Writer
	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) storeDir(dir string) string {
	if dir == "" {
		return a.cfg.Store.Root
	}
	return dir
}

func (a *app) openStore(dir string, opts ...cas.Option) (*cas.Store, error) {
	opts = append([]cas.Option{cas.WithLogger(a.logger)}, opts...)
	return cas.NewStore(a.storeDir(dir), opts...)
}

// BuildCmd builds a package from a script.
type BuildCmd struct {
	Script string `arg:"" help:"Document script" type:"existingfile"`
	Out    string `short:"o" required:"" help:"Output .docx path" type:"path"`
	Store  bool   `help:"Also put the package into the store"`
	Dir    string `name:"store-dir" help:"Store directory (default: store.root from config)" type:"path"`
	Name   string `help:"Name recorded in the store (default: output file name)"`
}

func (c *BuildCmd) Run(a *app) error {
	start := time.Now()
	if err := validation.ValidatePath(c.Out); err != nil {
		return err
	}
	name, err := c.storeName()
	if err != nil {
		return err
	}
	doc, err := script.BuildFile(c.Script)
	if err != nil {
		return err
	}

	opts, err := a.cfg.PackOptions()
	if err != nil {
		return err
	}
	opts.Logger = a.logger
	digest, err := pack.NewSerializer(opts).WriteFile(a.ctx, c.Out, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s\n", digest, c.Out)

	if c.Store || c.Dir != "" {
		if err := c.put(a, name); err != nil {
			return err
		}
	}
	logging.Debug("build finished", "script", c.Script, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// storeName returns the validated --name, or one derived from the
// output file name.
func (c *BuildCmd) storeName() (string, error) {
	if c.Name == "" {
		return validation.SanitizeName(c.Out)
	}
	if err := validation.ValidateName(c.Name); err != nil {
		return "", err
	}
	return c.Name, nil
}

func (c *BuildCmd) put(a *app, name string) error {
	data, err := os.ReadFile(c.Out)
	if err != nil {
		return errors.Wrap(err, "failed to read package")
	}
	store, err := a.openStore(c.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Put(a.ctx, name, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "stored %s as %s in %s\n", rec.Name, rec.Digest, store.Root())
	return nil
}

// InspectCmd prints a summary of a package.
type InspectCmd struct {
	Path string `arg:"" help:"Package to inspect" type:"existingfile"`
	Part string `help:"Print this part as indented XML instead of the summary"`
}

func (c *InspectCmd) Run(a *app) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return errors.Wrap(err, "failed to read package")
	}
	if ft := validation.DetectFileType(data); ft != validation.FileTypeZip {
		return errors.NewValidation("path", fmt.Sprintf("%s holds %s content, not a package", c.Path, ft))
	}
	r, err := pack.Open(data)
	if err != nil {
		return err
	}

	if c.Part != "" {
		raw, err := r.Part(c.Part)
		if err != nil {
			return err
		}
		formatted, err := xml.Format(raw, xml.FormatOptions{})
		if err != nil {
			return err
		}
		_, err = a.out.Write(formatted)
		return err
	}

	types, err := r.ContentTypes()
	if err != nil {
		return err
	}
	title, err := r.Title()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Package: %s\nDigest:  %s\n", c.Path, pack.Digest(data))
	if title != "" {
		fmt.Fprintf(a.out, "Title:   %s\n", title)
	}
	fmt.Fprintln(a.out, "\nParts:")
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, name := range r.PartNames() {
		raw, _ := r.Part(name)
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", name, len(raw), types[name])
	}
	tw.Flush()

	rels, err := r.Relationships(pack.DocumentRelsPart)
	if err != nil {
		return err
	}
	if len(rels) > 0 {
		fmt.Fprintln(a.out, "\nRelationships:")
		tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, rel := range rels {
			mode := ""
			if rel.External {
				mode = "external"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", rel.ID, rel.Type[strings.LastIndex(rel.Type, "/")+1:], rel.Target, mode)
		}
		tw.Flush()
	}

	comments, err := r.Comments()
	if err != nil {
		return err
	}
	if len(comments) > 0 {
		fmt.Fprintln(a.out, "\nComments:")
		for _, cm := range comments {
			fmt.Fprintf(a.out, "  [%d] %s (%s) on paragraph %d: %s\n",
				cm.ID, cm.Author, cm.Date, cm.Paragraph, strings.ReplaceAll(cm.Text, "\n", " / "))
		}
	}
	return nil
}

// DigestCmd prints the digest of a file.
type DigestCmd struct {
	Paths []string `arg:"" help:"Files to digest" type:"existingfile"`
}

func (c *DigestCmd) Run(a *app) error {
	for _, path := range c.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}
		fmt.Fprintf(a.out, "%s  %s\n", pack.Digest(data), path)
	}
	return nil
}

// StoreLsCmd lists the store index.
type StoreLsCmd struct {
	Dir string `name:"store-dir" help:"Store directory (default: store.root from config)" type:"path"`
}

func (c *StoreLsCmd) Run(a *app) error {
	store, err := a.openStore(c.Dir, cas.ReadOnly())
	if errors.Is(err, errors.ErrNotFound) {
		fmt.Fprintf(a.out, "No packages in %s\n", a.storeDir(c.Dir))
		return nil
	}
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(a.ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(a.out, "No packages in %s\n", store.Root())
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STORED\tDIGEST\tSIZE\tPARTS\tNAME")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			rec.StoredAt.Format(time.RFC3339), rec.Digest[:16], rec.Size, rec.Parts, rec.Name)
	}
	return tw.Flush()
}

// StoreGetCmd extracts a stored package.
type StoreGetCmd struct {
	Digest string `arg:"" help:"Package digest"`
	Out    string `short:"o" required:"" help:"Output path" type:"path"`
	Dir    string `name:"store-dir" help:"Store directory (default: store.root from config)" type:"path"`
}

func (c *StoreGetCmd) Run(a *app) error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return err
	}
	store, err := a.openStore(c.Dir, cas.ReadOnly())
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := store.Get(c.Digest)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Out, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", c.Out)
	}
	fmt.Fprintf(a.out, "wrote %s (%d bytes)\n", c.Out, len(data))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "docxgen version %s\n", version)
	return nil
}

// run parses args, loads configuration and runs the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("docxgen"),
		kong.Description("Build and inspect WordprocessingML packages"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Apply(config.Overrides{LogLevel: cli.LogLevel, LogFormat: cli.LogFormat}); err != nil {
		return err
	}
	level, format, err := cfg.Logging()
	if err != nil {
		return err
	}
	logging.InitLoggerTo(stderr, level, format)

	return kctx.Run(&app{
		ctx:    ctx,
		out:    stdout,
		cfg:    cfg,
		logger: logging.GetLogger(),
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "docxgen: %v\n", err)
		stop()
		os.Exit(1)
	}
}
