package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/htmltree/config"
	"github.com/chrisuehlinger/htmltree/css"
	"github.com/chrisuehlinger/htmltree/dom"
	"github.com/chrisuehlinger/htmltree/html"
)

// openSource opens the document named on the command line, "-" is STDIN.
func openSource(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open document: %w", err)
	}
	return f, nil
}

// parseSource builds a tree from the named document. With fc set it is
// parsed as a fragment in that context.
func parseSource(env *localEnv, name string, fc *html.FragmentContext) (*dom.Document, error) {
	r, err := openSource(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	parser := html.NewParser(env.Log)
	sink := html.NewSink(env.Log)
	if fc != nil {
		err = parser.BuildFragment(r, *fc, sink)
	} else {
		err = parser.Build(r, sink)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", name, err)
	}

	if env.Cfg.Parsing.ReportErrors {
		for _, perr := range multierr.Errors(sink.Errors()) {
			env.Log.Warn("HTML parse error", zap.String("source", name), zap.Error(perr))
		}
	}
	doc := sink.Finish()
	env.Log.Debug("Document parsed", zap.String("source", name), zap.Stringer("quirks", doc.QuirksMode()))
	return doc, nil
}

// writeMatches prints the elements selected under root in the configured
// format and returns their number.
func writeMatches(env *localEnv, root *dom.Node, set *css.SelectorSet, first bool, format string) (int, error) {
	count := 0
	for el := range set.Select(root) {
		count++
		switch format {
		case "html":
			if err := html.Render(env.Out, el.AsNode()); err != nil {
				return count, fmt.Errorf("unable to render element: %w", err)
			}
			env.Out.WriteString(env.Cfg.Output.Separator)
		case "text":
			env.Out.WriteString(el.AsNode().TextContents())
			env.Out.WriteString(env.Cfg.Output.Separator)
		}
		if first {
			break
		}
	}
	if format == "count" {
		env.Out.WriteString(strconv.Itoa(count))
		env.Out.WriteString(env.Cfg.Output.Separator)
	}
	return count, nil
}

func outputFormat(env *localEnv, cmd *cli.Command) (string, error) {
	format := env.Cfg.Output.Format
	if cmd.IsSet("format") {
		format = cmd.String("format")
	}
	switch format {
	case "html", "text", "count":
		return format, nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func runSelect(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("select requires a document and at least one selector")
	}
	format, err := outputFormat(env, cmd)
	if err != nil {
		return err
	}

	// Compile everything before touching the document.
	var sets []*css.SelectorSet
	for _, s := range cmd.Args().Slice()[1:] {
		set, err := css.Compile(s)
		if err != nil {
			return err
		}
		sets = append(sets, set)
	}

	doc, err := parseSource(env, cmd.Args().First(), nil)
	if err != nil {
		return err
	}
	for _, set := range sets {
		n, err := writeMatches(env, doc.AsNode(), set, cmd.Bool("first"), format)
		if err != nil {
			return err
		}
		env.Log.Debug("Selector applied", zap.Stringer("selector", set), zap.Int("matches", n))
	}
	return nil
}

func runFragment(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("fragment requires a document and a selector")
	}
	format, err := outputFormat(env, cmd)
	if err != nil {
		return err
	}
	set, err := css.Compile(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	fc := fragmentContext(cmd.String("context"))
	doc, err := parseSource(env, cmd.Args().First(), &fc)
	if err != nil {
		return err
	}
	_, err = writeMatches(env, doc.AsNode(), set, cmd.Bool("first"), format)
	return err
}

// fragmentContext turns "svg:foreignObject" style names into a context
// whose namespace is resolved from the prefix.
func fragmentContext(name string) html.FragmentContext {
	if prefix, local, ok := strings.Cut(name, ":"); ok {
		return html.FragmentContext{Name: dom.QualName{Prefix: prefix, Local: local}}
	}
	return html.Context(name)
}

func runSpecificity(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("specificity requires exactly one selector list")
	}
	set, err := css.Compile(cmd.Args().First())
	if err != nil {
		return err
	}
	for _, sel := range set.Selectors {
		fmt.Fprintf(env.Out, "%s\t%s\n", sel.Specificity(), sel)
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		err   error
		data  []byte
		state string
	)
	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", "STDOUT"))
		_, err = env.Out.Write(data)
		return err
	}

	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
