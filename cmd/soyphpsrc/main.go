package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oujesky/closure-templates/phpsrc"
	"github.com/oujesky/closure-templates/soytree"
)

func usage() {
	fmt.Println(`soyphpsrc - compile template trees to PHP source
Usage: soyphpsrc [flags] <tree.json>...

Each input is a JSON tree dump of parsed template files. One PHP file
is written per template file in the tree.

Flags:
  -config <file>           load options from a YAML file
  -locale <tag>            BCP 47 locale deciding the bidi global direction
  -bidi-is-rtl-fn <name>   dotted name of a function deciding direction at runtime
  -translation-class <ns>  PHP class providing translated messages
  -out <format>            output path format, e.g. out/{INPUT_FILE_NAME_NO_EXT}.php
  -print                   print generated sources to stdout instead of writing files`)
}

func main() {
	configPath := flag.String("config", "", "options YAML file")
	locale := flag.String("locale", "", "BCP 47 locale")
	bidiIsRtlFn := flag.String("bidi-is-rtl-fn", "", "runtime direction function")
	translationClass := flag.String("translation-class", "", "translation class")
	outFormat := flag.String("out", "", "output path format")
	printOnly := flag.Bool("print", false, "print to stdout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	var options phpsrc.Options
	if *configPath != "" {
		loaded, err := phpsrc.LoadOptions(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "soyphpsrc: %v\n", err)
			os.Exit(1)
		}
		options = loaded
	}
	if *locale != "" {
		options.Locale = *locale
	}
	if *bidiIsRtlFn != "" {
		options.BidiIsRtlFn = *bidiIsRtlFn
	}
	if *translationClass != "" {
		options.TranslationClass = *translationClass
	}
	if *outFormat != "" {
		options.OutputPathFormat = *outFormat
	}

	for _, path := range flag.Args() {
		if err := compile(path, options, *printOnly); err != nil {
			fmt.Fprintf(os.Stderr, "soyphpsrc: %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func compile(path string, options phpsrc.Options, printOnly bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fileSet, err := soytree.DecodeFileSet(f)
	if err != nil {
		return err
	}

	if printOnly {
		sources, err := phpsrc.GenPhpSrc(fileSet, options)
		if err != nil {
			return err
		}
		for _, src := range sources {
			fmt.Print(src)
		}
		return nil
	}
	return phpsrc.GenPhpFiles(fileSet, options)
}
