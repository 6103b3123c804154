// Command htmlparse prints the element tree of a markup document.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/logutils"
	"github.com/romashorodok/html-parser/pkg/parser"
	"github.com/romashorodok/html-parser/pkg/parser/selector"
	"github.com/romashorodok/html-parser/pkg/sourceutils"
)

type options struct {
	file        string
	format      Format
	classes     ListFlag
	tags        ListFlag
	attrs       ListFlag
	strict      bool
	rawSections bool
	encoding    string
}

// selectors turns the filter flags into selectors, nil when none is set.
// An element is printed when it matches all of them.
func (o *options) selectors() ([]parser.Selector, error) {
	var selectors []parser.Selector
	if len(o.classes) > 0 {
		selectors = append(selectors, selector.NewClassSelector(o.classes))
	}
	if len(o.tags) > 0 {
		tags, err := selector.NewTagSelectorFromNames(o.tags...)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, tags)
	}
	for _, expr := range o.attrs {
		attr, err := selector.ParseAttrSelector(expr)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, attr)
	}
	return selectors, nil
}

func (o *options) parserOptions() []parser.Option {
	var opts []parser.Option
	if o.strict {
		opts = append(opts, parser.WithStrictNesting())
	}
	if o.rawSections {
		opts = append(opts, parser.WithRawSections())
	}
	return opts
}

func parseOptions(args []string) (*options, error) {
	var (
		opts   options
		format string
	)

	fs := flag.NewFlagSet("htmlparse", flag.ContinueOnError)
	fs.StringVar(&opts.file, "file", "", "markup file to parse, stdin when empty")
	fs.StringVar(&format, "format", string(FORMAT_TREE), "output format: json, tree or tokens")
	fs.Var(&opts.classes, "class", "print only elements with the class. Repeatable")
	fs.Var(&opts.tags, "tag", "print only elements with the tag, like article. Repeatable")
	fs.Var(&opts.attrs, "attr", "print only elements with the attribute, name or name=value. Repeatable")
	fs.BoolVar(&opts.strict, "strict", false, "close elements by end tag name instead of position")
	fs.BoolVar(&opts.rawSections, "raw-sections", false, "end comments at --> and instructions at ?> instead of the first >")
	fs.StringVar(&opts.encoding, "encoding", "", "input encoding label, detected when empty")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if opts.format, err = ParseFormat(format); err != nil {
		return nil, err
	}
	if _, err = opts.selectors(); err != nil {
		return nil, err
	}
	return &opts, nil
}

func readInput(opts *options, stdin io.Reader) ([]byte, error) {
	if opts.file == "" {
		return sourceutils.Decode(stdin, "", opts.encoding)
	}
	return sourceutils.ReadFile(opts.file, opts.encoding)
}

func run(opts *options, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	data, err := readInput(opts, stdin)
	if err != nil {
		return err
	}

	if opts.format == FORMAT_TOKENS {
		tokenizer := parser.NewTokenizer(data, opts.parserOptions()...)
		tokens := tokenizer.All()
		logDiagnostics(logger, tokenizer.Diagnostics())
		return RenderTokens(stdout, tokens)
	}

	selectors, err := opts.selectors()
	if err != nil {
		return err
	}

	document := parser.ParseDocument(string(data), opts.parserOptions()...)
	logDiagnostics(logger, document.Diagnostics)

	if len(selectors) > 0 {
		matches := parser.Find(document.Root, selectors...)
		logger.Debug("element filter",
			zap.Strings("classes", opts.classes),
			zap.Strings("tags", opts.tags),
			zap.Strings("attrs", opts.attrs),
			zap.Int("matches", len(matches)),
		)
		if opts.format == FORMAT_JSON {
			return RenderJSON(stdout, matches)
		}
		return RenderTree(stdout, matches...)
	}

	if opts.format == FORMAT_JSON {
		return RenderJSON(stdout, document)
	}
	return RenderTree(stdout, document.Root)
}

func logDiagnostics(logger *zap.Logger, diagnostics []parser.Diagnostic) {
	for _, diagnostic := range diagnostics {
		logger.Warn(diagnostic.Message,
			zap.String("kind", string(diagnostic.Kind)),
			zap.Int("offset", diagnostic.Offset),
		)
	}
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logutils.NewLoggerFromEnv("htmlparse")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(opts, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("unable parse markup", zap.String("file", opts.file), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
