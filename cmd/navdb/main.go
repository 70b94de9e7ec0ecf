// Command navdb converts Garmin navigation database containers to JSON IR and
// back, and inspects, verifies and exports them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/arloliu/navdb"
	"github.com/arloliu/navdb/internal/export"
	"github.com/arloliu/navdb/internal/logging"
	"github.com/arloliu/navdb/internal/openaip"
	"github.com/arloliu/navdb/ir"
)

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log format (text, json)"`

	out io.Writer `kong:"-"`
	log io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}

	return g.out
}

func (g *Globals) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return nil, err
	}
	w := g.log
	if w == nil {
		w = os.Stderr
	}

	return logging.New(w, level, format), nil
}

func (g *Globals) options() ([]navdb.Option, error) {
	logger, err := g.logger()
	if err != nil {
		return nil, err
	}

	return []navdb.Option{navdb.WithLogger(logger)}, nil
}

// CLI defines the command-line interface for navdb.
type CLI struct {
	Globals

	Print  PrintCmd  `cmd:"" help:"Print every section of a container"`
	Decode DecodeCmd `cmd:"" help:"Decode a container to IR"`
	Encode EncodeCmd `cmd:"" help:"Encode IR to a container"`
	TOC    TOCCmd    `cmd:"" name:"toc" help:"Print the metadata and table of contents of a container"`
	Parse  ParseCmd  `cmd:"" help:"Build IR from an OpenAIP airports export"`
	Verify VerifyCmd `cmd:"" help:"Check that a container survives decode and encode unchanged"`
	Export ExportCmd `cmd:"" help:"Export the facilities of a container to SQLite"`
}

// PrintCmd renders a container section by section.
type PrintCmd struct {
	Container string `arg:"" help:"Container file" type:"existingfile"`
}

func (c *PrintCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.Container)
	if err != nil {
		return err
	}
	opts, err := g.options()
	if err != nil {
		return err
	}
	text, err := navdb.Inspect(data, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "%s: %s\n%s\n", c.Container, humanize.IBytes(uint64(len(data))), text)

	return nil
}

// DecodeCmd writes the IR of a container.
type DecodeCmd struct {
	Container string `arg:"" help:"Container file" type:"existingfile"`
	Output    string `arg:"" help:"IR file (.json, .json.zst, .json.s2, .json.lz4, .json.xz)"`
}

func (c *DecodeCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.Container)
	if err != nil {
		return err
	}
	opts, err := g.options()
	if err != nil {
		return err
	}
	doc, err := navdb.Decode(data, opts...)
	if err != nil {
		return err
	}
	if err := ir.WriteFile(c.Output, doc); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "decoded %d facilities from %s to %s\n",
		len(doc.LandingFacilities), humanize.IBytes(uint64(len(data))), c.Output)

	return nil
}

// EncodeCmd writes the container of an IR document.
type EncodeCmd struct {
	Input  string `arg:"" help:"IR file" type:"existingfile"`
	Output string `arg:"" help:"Container file"`
}

func (c *EncodeCmd) Run(g *Globals) error {
	doc, err := ir.ReadFile(c.Input)
	if err != nil {
		return err
	}
	opts, err := g.options()
	if err != nil {
		return err
	}
	image, err := navdb.Encode(doc, opts...)
	if err != nil {
		return err
	}
	if err := ir.WriteFileAtomic(c.Output, image); err != nil {
		return err
	}

	fmt.Fprintf(g.stdout(), "wrote %s to %s", humanize.IBytes(uint64(len(image))), c.Output)
	if doc.Source != nil {
		if navdb.MatchesSource(doc, image) {
			fmt.Fprint(g.stdout(), ", identical to the decoded container")
		} else {
			fmt.Fprint(g.stdout(), ", differs from the decoded container")
		}
	}
	fmt.Fprintln(g.stdout())

	return nil
}

// TOCCmd prints the directory of a container without decoding its sections.
type TOCCmd struct {
	Container string `arg:"" help:"Container file" type:"existingfile"`
	Digests   bool   `help:"Also print the xxHash64 of every section"`
}

func (c *TOCCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.Container)
	if err != nil {
		return err
	}
	meta, toc, err := navdb.ReadTableOfContents(data)
	if err != nil {
		return err
	}

	w := g.stdout()
	fmt.Fprintf(w, "%s\n%s\n", meta, toc)
	if !c.Digests {
		return nil
	}
	digests, err := navdb.Digests(data)
	if err != nil {
		return err
	}
	for _, d := range digests {
		fmt.Fprintf(w, "%-24s %10s %016x\n", d.Section, humanize.IBytes(uint64(d.Length)), d.Digest)
	}

	return nil
}

// ParseCmd converts an OpenAIP airports export to IR.
type ParseCmd struct {
	Input  string `arg:"" help:"OpenAIP airports JSON" type:"existingfile"`
	Output string `arg:"" help:"IR file"`
}

func (c *ParseCmd) Run(g *Globals) error {
	f, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := openaip.Parse(f)
	if err != nil {
		return err
	}
	if err := ir.WriteFile(c.Output, doc); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "parsed %d airports to %s\n", len(doc.LandingFacilities), c.Output)

	return nil
}

// ErrNotIdentical is returned by verify when the round trip changed the container.
var ErrNotIdentical = errors.New("re-encoded container differs from the original")

// VerifyCmd round-trips a container through the IR.
type VerifyCmd struct {
	Container string `arg:"" help:"Container file" type:"existingfile"`
}

func (c *VerifyCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.Container)
	if err != nil {
		return err
	}
	opts, err := g.options()
	if err != nil {
		return err
	}
	report, err := navdb.Verify(data, opts...)
	if err != nil {
		return err
	}

	w := g.stdout()
	fmt.Fprintf(w, "%d regions, original %s, re-encoded %s\n", report.Sections,
		humanize.IBytes(uint64(report.OriginalSize)), humanize.IBytes(uint64(report.ReencodedSize)))
	for _, m := range report.Mismatches {
		fmt.Fprintf(w, "  %-24s %016x -> %016x\n", m.Section, m.Original.Digest, m.Reencoded.Digest)
	}
	if !report.Identical {
		return ErrNotIdentical
	}
	fmt.Fprintln(w, "identical")

	return nil
}

// ExportCmd writes the facilities of a container to a SQLite database.
type ExportCmd struct {
	Container string `arg:"" help:"Container file" type:"existingfile"`
	Database  string `arg:"" help:"SQLite database to create"`
}

func (c *ExportCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.Container)
	if err != nil {
		return err
	}
	opts, err := g.options()
	if err != nil {
		return err
	}
	doc, err := navdb.Decode(data, opts...)
	if err != nil {
		return err
	}
	sum, err := export.WriteSQLite(context.Background(), c.Database, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "exported %d facilities, %d runways and %d frequencies to %s\n",
		sum.Facilities, sum.Runways, sum.Frequencies, c.Database)

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("navdb"),
		kong.Description("Garmin navigation database codec"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
