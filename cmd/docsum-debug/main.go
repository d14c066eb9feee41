// package main provides a tool named docsum-debug
//
// Usage:
//
//	$ docsum-debug help
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mmsapre/docmerkle/cmd/docsum-debug/jsoncmd"
	"github.com/mmsapre/docmerkle/cmd/docsum-debug/xmlcmd"
	"github.com/mmsapre/docmerkle/internal/options"
	"github.com/mmsapre/docmerkle/internal/version"
)

const usage = `
docsum-debug is a tool that helps debug document Merkle commitments and
diffs on the command-line.

Usage:

  docsum-debug help     Usage message
  docsum-debug version  Show program version and exit
  docsum-debug json     Build, diff, prove and verify against JSON documents
  docsum-debug xml      Build, diff, prove and verify against XML documents

`

func main() {
	var err error

	log.SetFlags(0)
	opt := options.New(os.Args[1:], func() { log.Printf(usage[1:]) }, func(_ *flag.FlagSet) {})
	switch opt.Name() {
	case "help", "":
		opt.Usage()
	case "version", "--version", "-v":
		version.DisplayVersion("docsum-debug")
	case "json":
		err = jsoncmd.Main(opt.Args())
	case "xml":
		err = xmlcmd.Main(opt.Args())
	default:
		err = fmt.Errorf(": invalid command %q, try \"help\"", opt.Name())
	}

	if err != nil {
		format := "docsum-debug %s%s"
		if len(opt.Name()) == 0 {
			format = "docsum-debug%s%s"
		}

		log.Printf(format, opt.Name(), err.Error())
		os.Exit(1)
	}
}
